package pkg

import (
	cryptoRand "crypto/rand"
	"encoding/hex"
	"math/big"
	"strings"
)

func RandDigits(n int) (string, error) {
	var b strings.Builder
	for i := 0; i < n; i++ {
		x, err := cryptoRand.Int(cryptoRand.Reader, big.NewInt(10))
		if err != nil {
			return "", err
		}
		b.WriteByte(byte('0' + x.Int64()))
	}
	return b.String(), nil
}

// RandToken 生成 n 字节随机数的十六进制串，用作会话 ID
func RandToken(n int) (string, error) {
	buf := make([]byte, n)
	if _, err := cryptoRand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
