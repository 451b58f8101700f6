/*
Package redisstore provides an implementation of cart.Store with a
redis database as backend.
*/
package redisstore

import (
	"context"
	"fmt"

	"github.com/sdabuk/marytts/cart"
	"gopkg.in/redis.v5"
)

/*
EncodeDecoder is an interface for objects that allow encoding trees
into slices of bytes and decoding them back to trees.
*/
type EncodeDecoder interface {
	// Encode receives a *cart.CART and returns a slice of bytes with
	// the tree encoded or an error if the encoding could not be
	// performed for some reason.
	Encode(*cart.CART) ([]byte, error)
	// Decode receives a slice of bytes and returns a *cart.CART
	// decoded from it or an error if the decoding could not be
	// performed for some reason.
	Decode([]byte) (*cart.CART, error)
}

type redisStore struct {
	rc     *redis.Client
	prefix string
	encdec EncodeDecoder
}

// New builds a cart.Store backed by a redis DB. Trees are kept under
// the given key prefix and serialized with the given EncodeDecoder.
func New(rc *redis.Client, prefix string, encdec EncodeDecoder) cart.Store {
	return &redisStore{rc, prefix, encdec}
}

func (rs *redisStore) Save(ctx context.Context, name string, c *cart.CART) error {
	data, err := rs.encdec.Encode(c)
	if err != nil {
		return fmt.Errorf("saving tree %q: encoding tree: %v", name, err)
	}
	_, err = rs.rc.Set(rs.keyFor(name), data, 0).Result()
	if err != nil {
		return fmt.Errorf("saving tree %q in redis: %v", name, err)
	}
	return nil
}

func (rs *redisStore) Load(ctx context.Context, name string) (*cart.CART, error) {
	data, err := rs.rc.Get(rs.keyFor(name)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("loading tree %q: %v", name, err)
	}
	c, err := rs.encdec.Decode([]byte(data))
	if err != nil {
		return nil, fmt.Errorf("loading tree %q: decoding tree: %v", name, err)
	}
	return c, nil
}

func (rs *redisStore) Delete(ctx context.Context, name string) error {
	_, err := rs.rc.Del(rs.keyFor(name)).Result()
	if err != nil {
		return fmt.Errorf("deleting tree %q from redis: %v", name, err)
	}
	return nil
}

func (rs *redisStore) Close(ctx context.Context) error {
	return rs.rc.Close()
}

func (rs *redisStore) keyFor(name string) string {
	return fmt.Sprintf("%s:%s", rs.prefix, name)
}
