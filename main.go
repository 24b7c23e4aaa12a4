package main

import "weather-panel/cmd"

func main() {
	cmd.Execute()
}
