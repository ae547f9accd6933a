// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package obj

import "testing"

func TestParseSizes(t *testing.T) {
	const out = `   text	   data	    bss	    dec	    hex	filename
   1234	    100	     20	   1354	    54a	firmware.elf
      1	      2	      3	      6	      6	other.elf
`
	got, ok := ParseSizes(out)
	if !ok {
		t.Fatal("no size line found")
	}
	want := Sizes{Text: 1234, Data: 100, BSS: 20, Total: 1354}
	if got != want {
		t.Fatalf("want %+v, got %+v", want, got)
	}
	if got.Progmem() != got.Text+got.Data {
		t.Errorf("progmem %d != text+data", got.Progmem())
	}
	if got.StaticRAM() != got.Data+got.BSS {
		t.Errorf("static ram %d != data+bss", got.StaticRAM())
	}
}

func TestParseSizesNoMatch(t *testing.T) {
	for _, out := range []string{"", "size: firmware.elf: file format not recognized\n", "text data bss\n"} {
		got, ok := ParseSizes(out)
		if ok || got != (Sizes{}) {
			t.Errorf("ParseSizes(%q) = %+v, %v; want zero, false", out, got, ok)
		}
	}
}
