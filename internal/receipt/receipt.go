// Package receipt renders an order summary as a QR code PNG.
package receipt

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/skip2/go-qrcode"

	"purchase-tracker/internal/models"
)

var ErrCiphertextTooShort = errors.New("receipt payload shorter than one block")

// Summary is the payload carried by the QR code. Product trees are reduced
// to line item names to keep the code scannable.
type Summary struct {
	Store       string       `json:"store"`
	Index       int          `json:"index"`
	DatePlaced  string       `json:"placed"`
	DateShipped string       `json:"shipped"`
	Subtotal    models.Cents `json:"subtotal"`
	Total       models.Cents `json:"total"`
	Items       []Item       `json:"items"`
}

type Item struct {
	Name string       `json:"name"`
	Paid models.Cents `json:"paid"`
}

func Summarize(store string, index int, o models.Order) Summary {
	s := Summary{
		Store:       store,
		Index:       index,
		DatePlaced:  o.DatePlaced.String(),
		DateShipped: o.DateShipped.String(),
		Subtotal:    o.Subtotal,
		Total:       o.Total,
		Items:       make([]Item, 0, len(o.Products)),
	}
	for _, line := range o.Products {
		s.Items = append(s.Items, Item{Name: line.Product.Name, Paid: line.PaidAmount})
	}
	return s
}

type Generator struct {
	secret []byte
	size   int
}

// NewGenerator returns a generator producing size x size images. An empty
// secret leaves the payload as plain JSON.
func NewGenerator(secret string, size int) *Generator {
	g := &Generator{size: size}
	if secret != "" {
		hashed := sha256.Sum256([]byte(secret))
		g.secret = hashed[:]
	}
	return g
}

// Payload is the text encoded into the QR code for s.
func (g *Generator) Payload(s Summary) (string, error) {
	data, err := json.Marshal(s)
	if err != nil {
		return "", fmt.Errorf("marshal receipt: %w", err)
	}
	if g.secret == nil {
		return string(data), nil
	}
	return encryptAES(data, g.secret)
}

func (g *Generator) PNG(s Summary) ([]byte, error) {
	payload, err := g.Payload(s)
	if err != nil {
		return nil, err
	}
	png, err := qrcode.Encode(payload, qrcode.Medium, g.size)
	if err != nil {
		return nil, fmt.Errorf("encode qr: %w", err)
	}
	return png, nil
}

// Open reverses Payload for a sealed receipt.
func (g *Generator) Open(payload string) (Summary, error) {
	var s Summary
	data := []byte(payload)
	if g.secret != nil {
		var err error
		if data, err = decryptAES(payload, g.secret); err != nil {
			return s, err
		}
	}
	if err := json.Unmarshal(data, &s); err != nil {
		return s, fmt.Errorf("unmarshal receipt: %w", err)
	}
	return s, nil
}

func encryptAES(data []byte, key []byte) (string, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return "", err
	}

	ciphertext := make([]byte, aes.BlockSize+len(data))
	iv := ciphertext[:aes.BlockSize]
	if _, err := io.ReadFull(rand.Reader, iv); err != nil {
		return "", err
	}

	stream := cipher.NewCFBEncrypter(block, iv)
	stream.XORKeyStream(ciphertext[aes.BlockSize:], data)

	return base64.URLEncoding.EncodeToString(ciphertext), nil
}

func decryptAES(payload string, key []byte) ([]byte, error) {
	ciphertext, err := base64.URLEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("decode receipt: %w", err)
	}
	if len(ciphertext) < aes.BlockSize {
		return nil, ErrCiphertextTooShort
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}

	data := make([]byte, len(ciphertext)-aes.BlockSize)
	stream := cipher.NewCFBDecrypter(block, ciphertext[:aes.BlockSize])
	stream.XORKeyStream(data, ciphertext[aes.BlockSize:])
	return data, nil
}
