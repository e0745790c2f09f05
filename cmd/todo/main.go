package main

import (
	"os"

	"github.com/Abhishek-Chamlagain/todo-app-frontend/internal/cli"
)

func main() {
	code := cli.Execute(cli.NewRootCmd(), os.Args[1:], os.Stderr)
	os.Exit(code)
}
