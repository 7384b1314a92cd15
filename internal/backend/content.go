// Copyright (c) 2025 Localarb
// Licensed under the MIT License. See LICENSE file in the project root for details.

package backend

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Content maps page filenames to their text, keeping the order the backend
// sent them in. The zero value is empty and ready to use.
type Content struct {
	keys []string
	text map[string]string
}

// NewContent builds Content from alternating filename, text pairs.
func NewContent(pairs ...string) Content {
	var c Content
	for i := 0; i+1 < len(pairs); i += 2 {
		c.Set(pairs[i], pairs[i+1])
	}
	return c
}

// Files returns the filenames in order.
func (c Content) Files() []string { return append([]string(nil), c.keys...) }

// Len returns the number of files.
func (c Content) Len() int { return len(c.keys) }

// Get returns the text of file.
func (c Content) Get(file string) (string, bool) {
	s, ok := c.text[file]
	return s, ok
}

// Set stores text for file, appending the file when it is new.
func (c *Content) Set(file, text string) {
	if c.text == nil {
		c.text = make(map[string]string)
	}
	if _, ok := c.text[file]; !ok {
		c.keys = append(c.keys, file)
	}
	c.text[file] = text
}

// Clone returns an independent copy.
func (c Content) Clone() Content {
	out := Content{keys: c.Files(), text: make(map[string]string, len(c.text))}
	for k, v := range c.text {
		out.text[k] = v
	}
	return out
}

// MarshalJSON writes the files as an object in order.
func (c Content) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range c.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		vb, err := json.Marshal(c.text[k])
		if err != nil {
			return nil, err
		}
		buf.Write(kb)
		buf.WriteByte(':')
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads an object of strings, recording key order. null
// yields empty content.
func (c *Content) UnmarshalJSON(b []byte) error {
	*c = Content{}
	dec := json.NewDecoder(bytes.NewReader(b))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil {
		return nil
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("content: expected object, got %v", tok)
	}
	for dec.More() {
		kt, err := dec.Token()
		if err != nil {
			return err
		}
		key, _ := kt.(string)
		var text string
		if err := dec.Decode(&text); err != nil {
			return fmt.Errorf("content %q: %w", key, err)
		}
		c.Set(key, text)
	}
	_, err = dec.Token()
	return err
}
