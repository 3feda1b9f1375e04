package dev

import (
	"encoding/json"
	"github.com/NautilusNFTs/nautilus-interface/internal/config"
	"io"
	"log"
)

// Print writes el as indented JSON.
func Print(w io.Writer, el interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(el)
}

func Dump(el interface{}) {
	if config.Get().Debug {
		elJson, _ := json.MarshalIndent(el, "", "  ")
		log.Println(string(elJson))
	}
}
