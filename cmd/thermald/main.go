package main

import "github.com/thermal-commons/thermald/cmd/thermald/cmd"

func main() {
	cmd.Execute()
}
