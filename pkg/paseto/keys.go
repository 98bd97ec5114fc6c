package pasetotoken

import (
	"strings"

	paseto "aidanwoods.dev/go-paseto"
)

type Mode string

const (
	ModeLocal  Mode = "local"  // v4.local, encrypted
	ModePublic Mode = "public" // v4.public, signed
)

type Keys struct {
	Mode Mode

	Symmetric *paseto.V4SymmetricKey

	Secret *paseto.V4AsymmetricSecretKey
	Public *paseto.V4AsymmetricPublicKey
}

type KeyStrings struct {
	Mode         Mode
	SymmetricHex string
	SecretHex    string
	PublicHex    string
}

// LoadKeys parses hex key material. Public mode needs the secret key because
// this service both issues and verifies tokens; the public key is derived.
func LoadKeys(in KeyStrings) (Keys, error) {
	switch in.Mode {
	case ModeLocal:
		h := strings.TrimSpace(in.SymmetricHex)
		if h == "" {
			return Keys{}, ErrConfig{Msg: "local mode requires a symmetric key"}
		}
		k, err := paseto.V4SymmetricKeyFromHex(h)
		if err != nil {
			return Keys{}, ErrConfig{Msg: "invalid symmetric key hex: " + err.Error()}
		}
		return Keys{Mode: ModeLocal, Symmetric: &k}, nil

	case ModePublic:
		h := strings.TrimSpace(in.SecretHex)
		if h == "" {
			return Keys{}, ErrConfig{Msg: "public mode requires a secret key"}
		}
		sk, err := paseto.NewV4AsymmetricSecretKeyFromHex(h)
		if err != nil {
			return Keys{}, ErrConfig{Msg: "invalid secret key hex: " + err.Error()}
		}
		pk := sk.Public()
		return Keys{Mode: ModePublic, Secret: &sk, Public: &pk}, nil
	}
	return Keys{}, ErrConfig{Msg: "unknown mode (use local|public)"}
}

// NewLocalKeys generates a random v4.local key.
func NewLocalKeys() Keys {
	k := paseto.NewV4SymmetricKey()
	return Keys{Mode: ModeLocal, Symmetric: &k}
}

// NewPublicKeys generates a random v4.public key pair.
func NewPublicKeys() Keys {
	sk := paseto.NewV4AsymmetricSecretKey()
	pk := sk.Public()
	return Keys{Mode: ModePublic, Secret: &sk, Public: &pk}
}
