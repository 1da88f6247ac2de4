package main

import (
	"shanhu.io/swiftcc/swiftccbin"
)

func main() { swiftccbin.Main() }
