package main

import "github.com/Zhima-Mochi/minishop-cart/internal/presentation/cli"

func main() {
	cli.Execute()
}
