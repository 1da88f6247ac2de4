package swiftcc

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"shanhu.io/misc/errcode"
)

type configEntry struct {
	Name  string
	Value string
}

func makeDigest(t string, v interface{}) (string, error) {
	buf := new(bytes.Buffer)
	fmt.Fprintln(buf, t)
	bs, err := json.Marshal(v)
	if err != nil {
		return "", errcode.Annotate(err, "json marshal")
	}
	buf.Write(bs)
	sum := sha256.Sum256(buf.Bytes())
	return "sha256:" + hex.EncodeToString(sum[:]), nil
}

// Digest returns the digest of the expanded variables. Two configs that
// synthesize the same commands have the same digest.
func (c *Config) Digest() (string, error) {
	var entries []*configEntry
	for _, name := range c.names {
		entries = append(entries, &configEntry{
			Name:  name,
			Value: c.vars[name],
		})
	}
	return makeDigest("config", entries)
}
