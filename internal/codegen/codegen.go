// Package codegen 生成发放给用户的访问码
package codegen

import (
	"fmt"
	"strings"
	"unicode/utf8"

	nanoid "github.com/matoous/go-nanoid/v2"
)

// Alphabet 访问码字符集：26 个大写字母、10 个数字与 "-_="，共 39 个字符
const Alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789-_="

// DefaultLength 访问码长度
const DefaultLength = 64

// Generator 访问码生成器
type Generator interface {
	Generate() (string, error)
}

// Default 通过 nanoid 从 crypto/rand 取随机数
type Default struct {
	Length int
}

// Generate 实现 Generator
func (d Default) Generate() (string, error) {
	return GenerateN(d.Length)
}

// Generate 生成 DefaultLength 位的访问码
func Generate() (string, error) {
	return GenerateN(DefaultLength)
}

// GenerateN 生成 n 位访问码，每位独立均匀地取自 Alphabet
// n <= 0 时使用 DefaultLength
func GenerateN(n int) (string, error) {
	if n <= 0 {
		n = DefaultLength
	}
	code, err := nanoid.Generate(Alphabet, n)
	if err != nil {
		return "", fmt.Errorf("生成访问码失败: %w", err)
	}
	return code, nil
}

// Valid 判断 s 是否可能是已签发的码
// 非法 UTF-8、NUL 等 Alphabet 之外的字符一律返回 false
func Valid(s string) bool {
	if !utf8.ValidString(s) || utf8.RuneCountInString(s) != DefaultLength {
		return false
	}
	for _, r := range s {
		if !strings.ContainsRune(Alphabet, r) {
			return false
		}
	}
	return true
}
