// tpdump decodes tagpack/MessagePack documents and pretty-prints them.
//
//	tpdump file.bin...
//	tpdump < file.bin
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/davecgh/go-spew/spew"

	"github.com/tagpack/tagpack"
)

var tokens = flag.Bool("t", false, "dump the raw token stream instead of the value tree")

func main() {
	log.SetFlags(0)
	flag.Parse()

	if flag.NArg() == 0 {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			log.Fatalf("tpdump: stdin: %v", err)
		}
		dump("stdin", data)
		return
	}
	for _, name := range flag.Args() {
		data, err := os.ReadFile(name)
		if err != nil {
			log.Fatalf("tpdump: %v", err)
		}
		dump(name, data)
	}
}

func dump(name string, data []byte) {
	r := tagpack.NewReader(data)

	if *tokens {
		for r.Pos() < len(data) {
			pos := r.Pos()
			tok, err := r.ReadToken()
			if err != nil {
				log.Fatalf("tpdump: %s: offset %d: %v", name, pos, err)
			}
			fmt.Printf("%6d  %s\n", pos, tok)
		}
		return
	}

	for r.Pos() < len(data) {
		v, err := tagpack.DecodeValue(r)
		if err != nil {
			log.Fatalf("tpdump: %s: offset %d: %v", name, r.Pos(), err)
		}
		spew.Dump(v)
	}
}
