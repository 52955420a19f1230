package main

import "github.com/anirudhv/accredauth/cmd/accredauth/cmd"

func main() {
	cmd.Execute()
}
