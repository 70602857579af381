package config

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"io"
	"io/ioutil"
	"path"
	"sync"
)

var (
	fileEncrKey = []byte("Qz7#mV2p!rLx9^cW4tKb8*Ne1@hJ6sYd")
)

// EncryptedFile stores AES-GCM encrypted, base64 encoded bytes at FullPath.
type EncryptedFile struct {
	Dirname  string
	FileName string
	FullPath string
	mu       sync.Mutex
}

func NewEncryptedFile(dirName string, filename string) *EncryptedFile {
	return &EncryptedFile{Dirname: dirName, FileName: filename, FullPath: path.Join(dirName, filename)}
}

func (f *EncryptedFile) Set(text []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, err := Encrypt(text, fileEncrKey)
	if err != nil {
		return err
	}
	if !fileExists(f.FullPath) { // if the file does not exist...
		if err := makeDir(f.Dirname); err != nil {
			return err
		}
	}
	return ioutil.WriteFile(f.FullPath, []byte(base64.StdEncoding.EncodeToString(b)), 0600)
}

func (f *EncryptedFile) Get() ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !fileExists(f.FullPath) {
		return nil, FileNotFoundError{f.FullPath}
	}
	b64, err := ioutil.ReadFile(f.FullPath)
	if err != nil {
		return nil, err
	}
	cipherText, err := base64.StdEncoding.DecodeString(string(b64))
	if err != nil {
		return nil, err
	}
	return Decrypt(cipherText, fileEncrKey)
}

// Encrypt seals text with AES-GCM using key and returns the nonce followed by the cipher text.
func Encrypt(text []byte, key []byte) ([]byte, error) {
	c, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	gcm, err := cipher.NewGCM(c)
	if err != nil {
		return nil, err
	}
	nonce := make([]byte, gcm.NonceSize())
	if _, err = io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, err
	}
	return gcm.Seal(nonce, nonce, text, nil), nil
}

func Decrypt(text []byte, key []byte) ([]byte, error) {
	c, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	gcm, err := cipher.NewGCM(c)
	if err != nil {
		return nil, err
	}
	nonceSize := gcm.NonceSize()
	if len(text) < nonceSize {
		return nil, fmt.Errorf("encrypted text is too short")
	}
	nonce, cipherText := text[:nonceSize], text[nonceSize:]
	return gcm.Open(nil, nonce, cipherText, nil)
}
