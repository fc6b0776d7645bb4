package bridge

import "testing"

func TestParseTarget(t *testing.T) {
	tests := []struct {
		name        string
		arg         string
		wantErr     bool
		wantHost    string
		wantService string
	}{
		{
			name:        "host with port number",
			arg:         "my-hue.local:80",
			wantHost:    "my-hue.local",
			wantService: "80",
		},
		{
			name:        "host with service name",
			arg:         "bridge.example.com:http",
			wantHost:    "bridge.example.com",
			wantService: "http",
		},
		{
			name:        "ip address target",
			arg:         "10.0.0.42:8080",
			wantHost:    "10.0.0.42",
			wantService: "8080",
		},
		{
			name:    "missing colon",
			arg:     "my-hue.local",
			wantErr: true,
		},
		{
			name:    "empty host",
			arg:     ":80",
			wantErr: true,
		},
		{
			name:    "empty service",
			arg:     "my-hue.local:",
			wantErr: true,
		},
		{
			name:    "empty argument",
			arg:     "",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			target, err := ParseTarget(tt.arg)

			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseTarget(%q) error = %v, wantErr %v", tt.arg, err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if target.Host != tt.wantHost {
				t.Errorf("Host = %q, want %q", target.Host, tt.wantHost)
			}
			if target.Service != tt.wantService {
				t.Errorf("Service = %q, want %q", target.Service, tt.wantService)
			}
		})
	}
}

func TestTarget_String(t *testing.T) {
	target := Target{Host: "my-hue.local", Service: "80"}
	if got := target.String(); got != "my-hue.local:80" {
		t.Errorf("String() = %q, want %q", got, "my-hue.local:80")
	}
}
