package funcs

import (
	"crypto/md5"  //nolint:gosec // exposed as a document function, not used for security
	"crypto/sha1" //nolint:gosec // same as above
	"crypto/sha256"
	"crypto/sha512"
	"encoding/hex"
	"fmt"
	"hash"
	"io"
	"os"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/theMackabu/ship/pkg/value"
)

func (r *Registry) declareHash() {
	r.declare(Definition{Name: "md5", Namespace: []string{"hash"}, Params: []ParamType{TypeString}, Impl: stringHash(md5.New)})
	r.declare(Definition{Name: "sha1", Namespace: []string{"hash"}, Params: []ParamType{TypeString}, Impl: stringHash(sha1.New)})
	r.declare(Definition{Name: "sha256", Namespace: []string{"hash"}, Params: []ParamType{TypeString}, Impl: stringHash(sha256.New)})
	r.declare(Definition{Name: "sha512", Namespace: []string{"hash"}, Params: []ParamType{TypeString}, Impl: stringHash(sha512.New)})
	r.declare(Definition{Name: "bcrypt", Namespace: []string{"hash"}, Params: []ParamType{TypeString}, Impl: bcryptHash})

	r.declare(Definition{Name: "md5", Namespace: []string{"fs", "hash"}, Params: []ParamType{TypeString}, Impl: fileHash(md5.New)})
	r.declare(Definition{Name: "sha1", Namespace: []string{"fs", "hash"}, Params: []ParamType{TypeString}, Impl: fileHash(sha1.New)})
	r.declare(Definition{Name: "sha256", Namespace: []string{"fs", "hash"}, Params: []ParamType{TypeString}, Impl: fileHash(sha256.New)})
	r.declare(Definition{Name: "sha512", Namespace: []string{"fs", "hash"}, Params: []ParamType{TypeString}, Impl: fileHash(sha512.New)})

	r.declare(Definition{Name: "uuid", Impl: uuidGen})
	r.declare(Definition{Name: "uuidv5", Params: []ParamType{TypeString, TypeString}, Impl: uuidV5})
}

func stringHash(newHash func() hash.Hash) Impl {
	return func(args []value.Value) (value.Value, error) {
		h := newHash()
		_, _ = h.Write([]byte(args[0].AsString()))
		return value.String(hex.EncodeToString(h.Sum(nil))), nil
	}
}

// fileHash streams the file through the digest in fixed-size chunks so
// large files never load wholesale.
func fileHash(newHash func() hash.Hash) Impl {
	return func(args []value.Value) (value.Value, error) {
		f, err := os.Open(args[0].AsString())
		if err != nil {
			return value.Value{}, fmt.Errorf("failed to open file: %w", err)
		}
		defer func() { _ = f.Close() }()

		h := newHash()
		buf := make([]byte, 1024)
		if _, err := io.CopyBuffer(h, f, buf); err != nil {
			return value.Value{}, fmt.Errorf("failed to read file: %w", err)
		}
		return value.String(hex.EncodeToString(h.Sum(nil))), nil
	}
}

func bcryptHash(args []value.Value) (value.Value, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(args[0].AsString()), bcrypt.DefaultCost)
	if err != nil {
		return value.Value{}, fmt.Errorf("bcrypt error: %w", err)
	}
	return value.String(string(hashed)), nil
}

func uuidGen(_ []value.Value) (value.Value, error) {
	return value.String(uuid.New().String()), nil
}

// uuidV5 derives a deterministic name-based UUID within the given
// namespace UUID.
func uuidV5(args []value.Value) (value.Value, error) {
	ns, err := uuid.Parse(args[0].AsString())
	if err != nil {
		return value.Value{}, fmt.Errorf("invalid namespace UUID: %w", err)
	}
	return value.String(uuid.NewSHA1(ns, []byte(args[1].AsString())).String()), nil
}
