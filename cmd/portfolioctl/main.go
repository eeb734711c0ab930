package main

import "github.com/tendant/simple-portfolio/cmd/portfolioctl/cmd"

func main() {
	cmd.Execute()
}
