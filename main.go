package main

import "qr-registry/cmd"

func main() {
	cmd.Execute()
}
