package main

import "thor-wallet-core/cmd/wallet-cli/cmd"

func main() {
	cmd.Execute()
}
