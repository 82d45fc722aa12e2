package common

import (
	"crypto/sha256"
	"fmt"
	"math/rand"
	"os"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
)

const (
	NA       = "N/A"
	ENABLED  = "enabled"
	DISABLED = "disabled"
)

var snowflakeNode *snowflake.Node

func init() {
	rand.New(rand.NewSource(time.Now().UnixNano()))
	var err error
	snowflakeNode, err = snowflake.NewNode(int64(rand.Intn(1023)))
	if err != nil {
		panic(err)
	}
}

// UUIDint64 returns a snowflake int64 id
func UUIDint64() int64 {
	return snowflakeNode.Generate().Int64()
}

// UUID returns a snowflake id string
func UUID() string {
	return snowflakeNode.Generate().String()
}

// GetSecretSalt reads the hash salt from the environment, with a fixed fallback.
func GetSecretSalt() string {
	salt := os.Getenv("OBRAS_SECRET_SALT")
	if salt == "" {
		salt = "obrasuite-2024"
	}
	return salt
}

// Sha256HashWithSalt returns hex sha256 of value+salt
func Sha256HashWithSalt(value, salt string) string {
	return fmt.Sprintf("%x", sha256.Sum256([]byte(value+salt)))
}

// IsEmptyOrNA checks empty string or N/A
func IsEmptyOrNA(v string) bool {
	v = strings.TrimSpace(v)
	return v == "" || v == NA
}

// IfEmptyStr returns defval when v is empty
func IfEmptyStr(v string, defval string) string {
	if strings.TrimSpace(v) == "" {
		return defval
	}
	return v
}

func FileExists(path string) bool {
	fi, err := os.Stat(path)
	if err != nil {
		return os.IsExist(err)
	}
	return !fi.IsDir()
}
