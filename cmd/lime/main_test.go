package main

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"testing"
)

func Test_printJSON_WritesPretty(t *testing.T) {
	old := os.Stdout
	r, w, _ := os.Pipe()
	os.Stdout = w
	defer func() { os.Stdout = old }()

	printJSON(map[string]any{"a": 1})
	_ = w.Close()
	out, _ := io.ReadAll(r)

	var m map[string]any
	if json.Unmarshal(out, &m) != nil || m["a"] != float64(1) {
		t.Fatalf("printJSON produced invalid json: %s", string(out))
	}
	if !bytes.Contains(out, []byte("\n")) {
		t.Fatalf("printJSON should indent")
	}
}

func Test_readAll_File_And_Stdin(t *testing.T) {
	// file path
	tmp := filepath.Join(t.TempDir(), "terms.txt")
	_ = os.WriteFile(tmp, []byte("be kind"), 0o600)
	b, err := readAll(tmp)
	if err != nil || string(b) != "be kind" {
		t.Fatalf("readAll(file): %q %v", b, err)
	}

	// stdin
	r, w, _ := os.Pipe()
	old := os.Stdin
	os.Stdin = r
	defer func() { os.Stdin = old }()
	go func() { _, _ = io.WriteString(w, "from-stdin"); _ = w.Close() }()
	b, err = readAll("-")
	if err != nil || string(b) != "from-stdin" {
		t.Fatalf("readAll(stdin): %q %v", b, err)
	}
}

func Test_imageList_CollectsRepeatedFlags(t *testing.T) {
	t.Parallel()

	var l imageList
	_ = l.Set("a.jpg")
	_ = l.Set("b.jpg")
	if len(l) != 2 || l[0] != "a.jpg" || l[1] != "b.jpg" {
		t.Fatalf("imageList: %v", l)
	}
	if l.String() == "" {
		t.Fatalf("imageList.String should describe contents")
	}
}
