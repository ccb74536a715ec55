package ir

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// DomainVersion is the domain prefix for content-addressed version IDs.
// The version suffix enables future algorithm migration.
const DomainVersion = "bitemp/version/v1"

// hashWithDomain computes SHA256(domain + 0x00 + data).
// The null separator prevents domain/data boundary ambiguity.
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// VersionID computes the content-addressed ID of a record version.
//
// The ID covers the field, key, valid-time bounds, the transaction start
// and the payload. TtTo is excluded: closing a version must not change its
// identity.
func VersionID(field, key string, vtFrom, vtTo, ttFrom Instant, payload map[string]any) (string, error) {
	obj := map[string]any{
		"field":   field,
		"key":     key,
		"vt_from": vtFrom,
		"vt_to":   vtTo,
		"tt_from": ttFrom,
	}
	if payload != nil {
		obj["payload"] = payload
	}

	canonical, err := MarshalCanonical(obj)
	if err != nil {
		return "", fmt.Errorf("VersionID: failed to marshal: %w", err)
	}
	return hashWithDomain(DomainVersion, canonical), nil
}

// MustVersionID is like VersionID but panics on error.
// Use only in tests or when inputs are known to be valid.
func MustVersionID(field, key string, vtFrom, vtTo, ttFrom Instant, payload map[string]any) string {
	id, err := VersionID(field, key, vtFrom, vtTo, ttFrom, payload)
	if err != nil {
		panic(err)
	}
	return id
}
