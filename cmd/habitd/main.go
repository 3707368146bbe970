package main

import "github.com/sandeepkv93/habitd/cmd/habitd/root"

func main() {
	root.Execute()
}
