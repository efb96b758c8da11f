// Package main 提供 duet 命令行入口
package main

import (
	"fmt"
	"os"
)

func main() {
	code, err := Execute()
	if err != nil {
		fmt.Fprintf(os.Stderr, "错误: %v\n", err)
		if code == 0 {
			code = 1
		}
	}
	os.Exit(code)
}
