package secrets

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/zalando/go-keyring"

	"talentmatch-engine/internal/config"
)

const (
	// “Service” groups this app’s secrets in the OS keychain.
	KeyringService = "talentmatch"
)

// GetGeocoderToken reads the provider API key from the OS keychain.
func GetGeocoderToken(keyringAccount string) (string, error) {
	if strings.TrimSpace(keyringAccount) != "" {
		token, err := keyring.Get(KeyringService, keyringAccount)
		if err == nil && strings.TrimSpace(token) != "" {
			return token, nil
		}
	}
	return "", errors.New("geocoder token not found in keychain")
}

func SetGeocoderToken(keyringAccount string, token string) error {
	if strings.TrimSpace(keyringAccount) == "" {
		return errors.New("keyring account name is empty")
	}
	if strings.TrimSpace(token) == "" {
		return errors.New("token is empty")
	}
	return keyring.Set(KeyringService, keyringAccount, token)
}

func DeleteGeocoderToken(keyringAccount string) error {
	if strings.TrimSpace(keyringAccount) == "" {
		return errors.New("keyring account name is empty")
	}
	return keyring.Delete(KeyringService, keyringAccount)
}

// GeocoderKeyringAccount derives the keychain account name from the
// configured provider host, so switching providers keeps keys apart.
func GeocoderKeyringAccount(cfg config.Config) string {
	host := cfg.Geocoder.BaseURL
	if u, err := url.Parse(cfg.Geocoder.BaseURL); err == nil && u.Host != "" {
		host = u.Host
	}
	return fmt.Sprintf("talentmatch:geocoder:%s", host)
}
