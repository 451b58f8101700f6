/*
Package yaml provides methods to parse feature.Dictionary
specifications, also known as metadata, from YAML documents.
*/
package yaml

import (
	"fmt"
	"io/ioutil"

	"github.com/sdabuk/marytts/feature"
	yaml "gopkg.in/yaml.v2"
)

/*
ReadDictionary takes a slice of bytes with a feature specification in
YML and returns a feature.Dictionary parsed from it or an error.

The YML is expected to be an object containing a features property. The
value for this should be an object with a property for each feature
with its name and either a string value of 'continuous' for continuous
features or a list of valid values for discrete features. Discrete
features with up to 256 values are encoded as byte features, larger
ones as short features.

Feature declaration order is preserved, so the feature indexes of the
resulting dictionary are stable across reads of the same document.
*/
func ReadDictionary(md []byte) (*feature.Dictionary, error) {
	metadata := struct {
		Features yaml.MapSlice
	}{}
	err := yaml.Unmarshal(md, &metadata)
	if err != nil {
		return nil, fmt.Errorf("parsing yml features: %v", err)
	}
	if metadata.Features == nil {
		return nil, fmt.Errorf("metadata file has no feature information")
	}
	features := []feature.Feature{}
	for _, item := range metadata.Features {
		fn := fmt.Sprintf("%v", item.Key)
		switch values := item.Value.(type) {
		case string:
			if values != "continuous" {
				return nil, fmt.Errorf("invalid declaration %q for feature %s", values, fn)
			}
			features = append(features, feature.NewContinuousFeature(fn))
		case []interface{}:
			stringVs := []string{}
			for _, v := range values {
				stringVs = append(stringVs, fmt.Sprintf("%v", v))
			}
			f, err := discreteFeature(fn, stringVs)
			if err != nil {
				return nil, err
			}
			features = append(features, f)
		default:
			return nil, fmt.Errorf("invalid feature declaration of type %T", item.Value)
		}
	}
	return feature.NewDictionary(features...)
}

/*
ReadDictionaryFromFile takes a filepath string, reads its contents and
uses ReadDictionary to parse it and return a feature.Dictionary or an
error. If the file indicated by the filepath cannot be opened for
reading an error will be returned.
*/
func ReadDictionaryFromFile(filepath string) (*feature.Dictionary, error) {
	md, err := ioutil.ReadFile(filepath)
	if err != nil {
		return nil, fmt.Errorf("reading features yml file %s: %v", filepath, err)
	}
	dictionary, err := ReadDictionary(md)
	if err != nil {
		err = fmt.Errorf("parsing features yml file %s: %v", filepath, err)
	}
	return dictionary, err
}

func discreteFeature(name string, values []string) (feature.Feature, error) {
	if len(values) <= 256 {
		return feature.NewByteFeature(name, values)
	}
	return feature.NewShortFeature(name, values)
}
