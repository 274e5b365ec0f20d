package credentials

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"

	"golang.org/x/crypto/ssh"
)

// KeyPair holds the operator account's SSH keys, generated by the cloud
// bootstrap profile before any other side effect.
type KeyPair struct {
	PrivateKeyPEM []byte
	AuthorizedKey []byte
}

// GenerateKeyPair creates an RSA keypair for the operator account.
func GenerateKeyPair(bits int) (*KeyPair, error) {
	privateKey, err := rsa.GenerateKey(rand.Reader, bits)
	if err != nil {
		return nil, err
	}
	if err := privateKey.Validate(); err != nil {
		return nil, err
	}

	privBlock := pem.Block{
		Type:  "RSA PRIVATE KEY",
		Bytes: x509.MarshalPKCS1PrivateKey(privateKey),
	}

	publicKey, err := ssh.NewPublicKey(&privateKey.PublicKey)
	if err != nil {
		return nil, err
	}

	return &KeyPair{
		PrivateKeyPEM: pem.EncodeToMemory(&privBlock),
		AuthorizedKey: ssh.MarshalAuthorizedKey(publicKey),
	}, nil
}
