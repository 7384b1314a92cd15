// Copyright (c) 2025 Localarb
// Licensed under the MIT License. See LICENSE file in the project root for details.

package terminal

import (
	"bufio"
	"bytes"
	"strings"
	"testing"
)

func TestReadLine(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{name: "trims", input: "  a@example.com \n", want: "a@example.com"},
		{name: "last line without newline", input: "x", want: "x"},
		{name: "eof", input: "", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			got, err := readLine(bufio.NewReader(strings.NewReader(tt.input)), &out, "Email: ")
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v", err)
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
			if out.String() != "Email: " {
				t.Errorf("prompt = %q", out.String())
			}
		})
	}
}
