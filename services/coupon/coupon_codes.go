package coupon

import (
	"errors"
	"fmt"
	"strings"

	"github.com/speps/go-hashids/v2"
)

const (
	codePrefix    = "EVS-"
	codeMinLength = 8
	// no 0/O or 1/I so codes survive being read aloud in chat
	codeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
)

// CodeEncoder turns coupon sequence numbers into opaque, unguessable codes.
type CodeEncoder struct {
	hash *hashids.HashID
}

func NewCodeEncoder(salt string) (*CodeEncoder, error) {
	hd := hashids.NewData()
	hd.Salt = salt
	hd.MinLength = codeMinLength
	hd.Alphabet = codeAlphabet

	h, err := hashids.NewWithData(hd)
	if err != nil {
		return nil, fmt.Errorf("coupon code encoder: %w", err)
	}
	return &CodeEncoder{hash: h}, nil
}

func (e *CodeEncoder) Encode(seq int64) (string, error) {
	encoded, err := e.hash.EncodeInt64([]int64{seq})
	if err != nil {
		return "", err
	}
	return codePrefix + encoded, nil
}

func (e *CodeEncoder) Decode(code string) (int64, error) {
	trimmed := strings.TrimPrefix(NormalizeCode(code), codePrefix)
	result, err := e.hash.DecodeInt64WithError(trimmed)
	if err != nil {
		return 0, err
	}
	if len(result) != 1 {
		return 0, errors.New("invalid coupon code")
	}
	return result[0], nil
}

// NormalizeCode trims and upper-cases a code typed by a customer.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
