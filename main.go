package main

import (
	// Embed tzdata in binary.
	_ "time/tzdata"

	"github.com/ShopCraft/CatalogAdmin/internal/cmd"
)

func main() {
	cmd.Main()
}
