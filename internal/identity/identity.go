// Package identity reads and preserves the contact keys (email, phone)
// that decide whether two resume extractions describe the same candidate.
package identity

import (
	"fmt"
	"strings"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

const (
	emailKey = "email"
	phoneKey = "phone"
)

// Keys holds normalized identity values. An empty string means absent.
type Keys struct {
	Email string
	Phone string
}

func (k Keys) Empty() bool {
	return k.Email == "" && k.Phone == ""
}

func (k Keys) String() string {
	return fmt.Sprintf("email=%q phone=%q", k.Email, k.Phone)
}

func NormalizeEmail(v string) string {
	return strings.ToLower(strings.TrimSpace(v))
}

func NormalizePhone(v string) string {
	return strings.TrimSpace(v)
}

// Read extracts the identity keys from a parsed extraction. It looks under
// path first (e.g. "node.resume.contactDetails") and falls back to flat
// top-level keys when nothing is found there.
func Read(fields []byte, path string) Keys {
	keys, _ := Resolve(fields, path)
	return keys
}

// Resolve is Read that also reports the base the keys were found under:
// path for the nested location, "" for the flat one. When no key is found
// the base is where a key would be written.
func Resolve(fields []byte, path string) (Keys, string) {
	if keys := readAt(fields, path); !keys.Empty() || path == "" {
		return keys, path
	}
	if keys := readAt(fields, ""); !keys.Empty() {
		return keys, ""
	}
	if gjson.GetBytes(fields, path).IsObject() {
		return Keys{}, path
	}
	if gjson.GetBytes(fields, emailKey).Exists() || gjson.GetBytes(fields, phoneKey).Exists() {
		return Keys{}, ""
	}
	return Keys{}, path
}

func readAt(fields []byte, path string) Keys {
	return Keys{
		Email: NormalizeEmail(scalar(fields, join(path, emailKey))),
		Phone: NormalizePhone(scalar(fields, join(path, phoneKey))),
	}
}

// scalar returns a string or number value; objects, arrays and null read as absent.
func scalar(fields []byte, path string) string {
	res := gjson.GetBytes(fields, path)
	switch res.Type {
	case gjson.String, gjson.Number:
		return res.String()
	default:
		return ""
	}
}

// Preserve writes the stored identity values back into a new extraction so
// a later upload cannot change them. The value goes where Resolve found the
// new keys and to any other location already holding that key, so no copy
// in the payload disagrees with the store. A value that already normalizes
// to the stored one is left as extracted; the payload may therefore differ
// from the stored, normalized key in case and surrounding space only. Keys
// absent from stored are left as the new extraction has them.
func Preserve(fields []byte, path string, stored Keys) ([]byte, error) {
	_, base := Resolve(fields, path)
	out := fields
	for _, k := range []struct {
		key       string
		value     string
		normalize func(string) string
	}{
		{emailKey, stored.Email, NormalizeEmail},
		{phoneKey, stored.Phone, NormalizePhone},
	} {
		if k.value == "" {
			continue
		}
		for _, target := range targets(out, path, base, k.key) {
			if k.normalize(scalar(out, target)) == k.value {
				continue
			}
			var err error
			out, err = sjson.SetBytes(out, target, k.value)
			if err != nil {
				return nil, fmt.Errorf("preserve %s: %w", k.key, err)
			}
		}
	}
	return out, nil
}

func targets(fields []byte, path, base, key string) []string {
	list := []string{join(base, key)}
	for _, other := range []string{path, ""} {
		t := join(other, key)
		if t != list[0] && gjson.GetBytes(fields, t).Exists() {
			list = append(list, t)
		}
	}
	return list
}

func join(path, key string) string {
	if path == "" {
		return key
	}
	return path + "." + key
}
