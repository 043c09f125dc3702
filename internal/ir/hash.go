package ir

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// Domain prefixes for content-addressed identity.
// Version suffix enables future algorithm migration.
const (
	DomainEvent    = "mdaq/event/v1"
	DomainSettings = "mdaq/settings/v1"
)

// hashWithDomain computes SHA256(domain + 0x00 + data).
// The null byte prevents domain/data boundary ambiguity.
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// EventID computes the content-addressed identity of an event.
//
// MinimumStartTimeMs is excluded: the ID names what is captured, and the
// first time point's schedule depends on when the stream was pulled.
func EventID(e Event) (string, error) {
	canonical, err := MarshalCanonical(e.identityMap())
	if err != nil {
		return "", fmt.Errorf("EventID: failed to marshal: %w", err)
	}
	return hashWithDomain(DomainEvent, canonical), nil
}

// SettingsHash identifies a settings value. encoding/json emits struct fields
// in declaration order, which is stable for a given IRVersion.
func SettingsHash(s AcquisitionSettings) (string, error) {
	data, err := json.Marshal(s)
	if err != nil {
		return "", fmt.Errorf("SettingsHash: failed to marshal: %w", err)
	}
	return hashWithDomain(DomainSettings, data), nil
}
