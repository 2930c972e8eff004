package main

import "github.com/soocke/dualcam-monitor/cmd"

func main() {
	cmd.Execute()
}
