package main

import "github.com/auditkit/lockaudit/cmd"

func main() {
	cmd.Execute()
}
