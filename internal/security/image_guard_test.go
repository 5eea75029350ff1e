package security

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

// TestNewImageGuard はImageGuardの生成をテストする。
func TestNewImageGuard(t *testing.T) {
	guard := NewImageGuard(10 * time.Second)
	if guard == nil {
		t.Fatal("NewImageGuard() returned nil")
	}
	if guard.client == nil {
		t.Fatal("expected HTTP client to be set, got nil")
	}
}

// TestNewImageGuardTimeout はタイムアウト設定が反映されることをテストする。
func TestNewImageGuardTimeout(t *testing.T) {
	timeout := 5 * time.Second
	guard := NewImageGuard(timeout)
	if guard.client.Timeout != timeout {
		t.Errorf("expected timeout %v, got %v", timeout, guard.client.Timeout)
	}
}

// TestNewImageGuardHasTransport はクライアントにカスタムTransportが設定されていることをテストする。
// safeurlはnet.DialerのControlフックでIPアドレス検証を行うため、
// Transportが標準のhttp.DefaultTransportではないことを確認する。
func TestNewImageGuardHasTransport(t *testing.T) {
	guard := NewImageGuard(5 * time.Second)

	if guard.client.Transport == nil {
		t.Fatal("expected custom Transport to be set, got nil")
	}
	if guard.client.Transport == http.DefaultTransport {
		t.Fatal("expected custom Transport, got http.DefaultTransport")
	}
}

// TestProbeImage_BlocksLoopback はループバックへのリクエストがブロックされることをテストする。
// httptestサーバーは127.0.0.1で起動されるため、静的検証の段階で拒否される。
func TestProbeImage_BlocksLoopback(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/png")
		w.WriteHeader(http.StatusOK)
	}))
	defer ts.Close()

	guard := NewImageGuard(5 * time.Second)

	err := guard.ProbeImage(context.Background(), ts.URL)
	if err == nil {
		t.Fatal("expected error for loopback address request, got nil")
	}
}

// TestValidateURL_PublicURL は公開URLの検証が成功することをテストする。
func TestValidateURL_PublicURL(t *testing.T) {
	guard := NewImageGuard(5 * time.Second)

	publicURLs := []string{
		"https://example.com/event.png",
		"https://images.example.com/banner.jpg",
		"http://cdn.example.org/poster.webp",
	}

	for _, u := range publicURLs {
		t.Run(u, func(t *testing.T) {
			err := guard.ValidateURL(u)
			if err != nil {
				t.Errorf("ValidateURL(%q) returned error: %v", u, err)
			}
		})
	}
}

// TestValidateURL_PrivateIP はプライベートIPアドレスの拒否をテストする。
func TestValidateURL_PrivateIP(t *testing.T) {
	guard := NewImageGuard(5 * time.Second)

	privateURLs := []string{
		"http://10.0.0.1/image.png",
		"http://10.255.255.255/image.png",
		"http://172.16.0.1/image.png",
		"http://172.31.255.255/image.png",
		"http://192.168.0.1/image.png",
		"http://192.168.1.100/image.png",
	}

	for _, u := range privateURLs {
		t.Run(u, func(t *testing.T) {
			err := guard.ValidateURL(u)
			if err == nil {
				t.Errorf("ValidateURL(%q) expected error, got nil", u)
			}
		})
	}
}

// TestValidateURL_LoopbackAndMetadata はループバック・メタデータIPの拒否をテストする。
func TestValidateURL_LoopbackAndMetadata(t *testing.T) {
	guard := NewImageGuard(5 * time.Second)

	blockedURLs := []string{
		"http://127.0.0.1/image.png",
		"http://127.255.255.255/image.png",
		"http://169.254.169.254/latest/meta-data/",
		"http://0.0.0.0/image.png",
		"http://localhost/image.png",
		"http://LOCALHOST/image.png",
	}

	for _, u := range blockedURLs {
		t.Run(u, func(t *testing.T) {
			err := guard.ValidateURL(u)
			if err == nil {
				t.Errorf("ValidateURL(%q) expected error, got nil", u)
			}
		})
	}
}

// TestValidateURL_DisallowedScheme はhttp/https以外のスキームの拒否をテストする。
func TestValidateURL_DisallowedScheme(t *testing.T) {
	guard := NewImageGuard(5 * time.Second)

	badURLs := []string{
		"ftp://example.com/image.png",
		"file:///etc/passwd",
		"javascript:alert(1)",
		"data:image/png;base64,xxxx",
	}

	for _, u := range badURLs {
		t.Run(u, func(t *testing.T) {
			err := guard.ValidateURL(u)
			if err == nil {
				t.Errorf("ValidateURL(%q) expected error, got nil", u)
			}
		})
	}
}

// TestValidateURL_EmptyAndMalformed は空文字列・不正なURLの拒否をテストする。
func TestValidateURL_EmptyAndMalformed(t *testing.T) {
	guard := NewImageGuard(5 * time.Second)

	badURLs := []string{
		"",
		"https://",
		"not a url",
	}

	for _, u := range badURLs {
		t.Run("url="+u, func(t *testing.T) {
			err := guard.ValidateURL(u)
			if err == nil {
				t.Errorf("ValidateURL(%q) expected error, got nil", u)
			}
		})
	}
}
