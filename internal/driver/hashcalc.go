package driver

import (
	"bytes"
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"

	"bindgen/internal/config"
	"bindgen/internal/version"
)

// Digest identifies one generation: the tool version, the configuration and
// the input bytes.
type Digest [sha256.Size]byte

func (d Digest) String() string {
	return hex.EncodeToString(d[:])
}

// IsZero reports whether the digest was never computed.
func (d Digest) IsZero() bool {
	return d == Digest{}
}

// combineDigest: H(len(p1) || p1 || len(p2) || p2 ...). Длина в префиксе не
// даёт соседним частям склеиться в одинаковый поток.
func combineDigest(parts ...[]byte) Digest {
	h := sha256.New()
	var size [8]byte
	for _, p := range parts {
		binary.LittleEndian.PutUint64(size[:], uint64(len(p)))
		_, _ = h.Write(size[:])
		_, _ = h.Write(p)
	}
	var out Digest
	copy(out[:], h.Sum(nil))
	return out
}

// configFingerprint renders cfg canonically.
func configFingerprint(cfg *config.Config) ([]byte, error) {
	var buf bytes.Buffer
	if err := config.Encode(&buf, cfg); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// inputDigest is the cache key of one input under a fingerprinted config.
func inputDigest(fingerprint, data []byte) Digest {
	return combineDigest([]byte(version.Version), fingerprint, data)
}
