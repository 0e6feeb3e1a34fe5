package main

import "github.com/Mohsinsiddi/walletfetch/cmd"

func main() {
	cmd.Execute()
}
