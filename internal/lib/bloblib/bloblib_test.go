package bloblib_test

import (
	"context"
	"testing"

	"github.com/dev-formata-io/stof-sub002/internal/graph"
	"github.com/dev-formata-io/stof-sub002/internal/lib/bloblib"
	"github.com/dev-formata-io/stof-sub002/internal/value"
)

func call(t *testing.T, name string, self value.Val, args ...value.Val) value.Val {
	t.Helper()
	for _, f := range bloblib.Funcs() {
		if f.Name == name {
			v, err := f.Impl(context.Background(), graph.New(), self, args)
			if err != nil {
				t.Fatalf("%s: unexpected error: %v", name, err)
			}
			return v
		}
	}
	t.Fatalf("no Blob.%s registered", name)
	return value.Val{}
}

func TestBlob_LenAndUtf8RoundTrip(t *testing.T) {
	b := value.BlobVal([]byte("hello"))
	if v := call(t, "len", b); v.Num().Int != 5 {
		t.Fatalf("len = %v, want 5", v.Num().Int)
	}
	if v := call(t, "to_utf8", b); v.Str() != "hello" {
		t.Fatalf("to_utf8 = %q, want hello", v.Str())
	}
	if v := call(t, "from_utf8", value.Val{}, value.StrVal("world")); string(v.Blob()) != "world" {
		t.Fatalf("from_utf8 = %q, want world", v.Blob())
	}
}

func TestBlob_Base64RoundTrip(t *testing.T) {
	b := value.BlobVal([]byte("payload"))
	encoded := call(t, "to_base64", b)
	decoded := call(t, "from_base64", value.Val{}, encoded)
	if string(decoded.Blob()) != "payload" {
		t.Fatalf("base64 round trip = %q, want payload", decoded.Blob())
	}
}

func TestBlob_UrlBase64RoundTrip(t *testing.T) {
	b := value.BlobVal([]byte("payload!?"))
	encoded := call(t, "to_url_base64", b)
	decoded := call(t, "from_url_base64", value.Val{}, encoded)
	if string(decoded.Blob()) != "payload!?" {
		t.Fatalf("url-base64 round trip = %q, want payload!?", decoded.Blob())
	}
}

func TestBlob_FromBase64_InvalidInputFails(t *testing.T) {
	for _, f := range bloblib.Funcs() {
		if f.Name == "from_base64" {
			if _, err := f.Impl(context.Background(), graph.New(), value.Val{}, []value.Val{value.StrVal("not valid base64!!")}); err == nil {
				t.Fatalf("expected decoding invalid base64 to fail")
			}
			return
		}
	}
	t.Fatalf("no Blob.from_base64 registered")
}

func TestBlob_HumanSize(t *testing.T) {
	v := call(t, "human_size", value.BlobVal(make([]byte, 2048)))
	if v.Str() == "" {
		t.Fatalf("expected a non-empty human-readable size")
	}
}
