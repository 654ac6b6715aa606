package main

import (
	"github.com/bstardust/threadpool-server/pkg/cli"
)

func main() {
	cli.Execute()
}
