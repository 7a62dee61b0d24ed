package archive

import "testing"

func TestObjectName(t *testing.T) {
	s := NewStore("receipt-images")

	tests := []struct {
		name     string
		filename string
		want     string
	}{
		{name: "plain filename", filename: "IMG_2041.jpg", want: "receipts/owner-1/rcpt-1/IMG_2041.jpg"},
		{name: "client sent a path", filename: "photos/march/IMG_2041.jpg", want: "receipts/owner-1/rcpt-1/IMG_2041.jpg"},
		{name: "empty filename", filename: "", want: "receipts/owner-1/rcpt-1/receipt"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := s.ObjectName("owner-1", "rcpt-1", tt.filename); got != tt.want {
				t.Errorf("ObjectName = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestURI(t *testing.T) {
	s := NewStore("receipt-images")
	want := "gs://receipt-images/receipts/owner-1/rcpt-1/IMG_2041.jpg"
	if got := s.URI("receipts/owner-1/rcpt-1/IMG_2041.jpg"); got != want {
		t.Errorf("URI = %q, want %q", got, want)
	}
}

func TestEnabled(t *testing.T) {
	if NewStore("").Enabled() {
		t.Error("a Store without a bucket should be disabled")
	}
	if !NewStore("receipt-images").Enabled() {
		t.Error("a Store with a bucket should be enabled")
	}
}
