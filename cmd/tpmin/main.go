// tpmin shrinks an input that the decoder rejects down to a minimal
// input that still fails the same way, using delta debugging. Useful for
// turning large fuzzer finds into readable regression fixtures.
//
//	tpmin crash.bin
package main

import (
	"bytes"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/dchest/siphash"
	"github.com/dgryski/go-ddmin"

	"github.com/tagpack/tagpack"
)

var outDir = flag.String("o", ".", "directory to write the minimized input to")

func decodeErr(data []byte) string {
	r := tagpack.NewReader(data)
	for r.Pos() < len(data) {
		if _, err := tagpack.DecodeValue(r); err != nil {
			return err.Error()
		}
	}
	return ""
}

func main() {
	log.SetFlags(0)
	flag.Parse()
	if flag.NArg() != 1 {
		log.Fatalf("usage: tpmin [-o dir] crash.bin")
	}

	data, err := os.ReadFile(flag.Arg(0))
	if err != nil {
		log.Fatalf("tpmin: %v", err)
	}

	want := decodeErr(data)
	if want == "" {
		log.Fatalf("tpmin: %s decodes cleanly, nothing to minimize", flag.Arg(0))
	}
	log.Printf("minimizing %d bytes failing with: %s", len(data), want)

	minimized := ddmin.Minimize(data, func(b []byte) ddmin.Result {
		switch decodeErr(b) {
		case want:
			return ddmin.Fail
		case "":
			return ddmin.Pass
		default:
			return ddmin.Unresolved
		}
	})

	h := siphash.Hash(0, 0, minimized)
	name := fmt.Sprintf("%s/min-%016x.bin", *outDir, h)
	if err := os.WriteFile(name, minimized, 0o644); err != nil {
		log.Fatalf("tpmin: %v", err)
	}
	if bytes.Equal(minimized, data) {
		log.Printf("input is already minimal, wrote %s", name)
		return
	}
	log.Printf("minimized to %d bytes, wrote %s", len(minimized), name)
}
