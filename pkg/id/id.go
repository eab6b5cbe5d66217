package id

import (
	"crypto/md5"
	"io"

	foxuuid "github.com/fox-one/pkg/uuid"
	"github.com/gofrs/uuid"
)

// GenTraceID new random trace id
func GenTraceID() string {
	return foxuuid.New()
}

// Modify derive a stable uuid from traceID for one of its side effects
func Modify(traceID, modifier string) string {
	return foxuuid.Modify(traceID, modifier)
}

// TraceIDFrom deterministic trace id from text
func TraceIDFrom(text string) string {
	h := md5.New()
	_, _ = io.WriteString(h, text)
	sum := h.Sum(nil)
	sum[6] = (sum[6] & 0x0f) | 0x30
	sum[8] = (sum[8] & 0x3f) | 0x80
	return uuid.FromBytesOrNil(sum).String()
}

// UUIDByName new uuid string from namespace uuid and name
func UUIDByName(namespace, name string) string {
	ns, err := uuid.FromString(namespace)
	if err != nil {
		panic(err)
	}

	return uuid.NewV5(ns, name).String()
}

// Valid text is a well formed uuid
func Valid(text string) bool {
	_, err := uuid.FromString(text)
	return err == nil
}
