// SPDX-License-Identifier: GPL-3.0-or-later
package main

import (
	"fmt"
	"llvmopt/repl"
	"os"
	"os/user"

	"github.com/tliron/commonlog"
	_ "github.com/tliron/commonlog/simple"

	"llvmopt/internal/llvm"
)

func main() {
	currentUser, err := user.Current()
	if err != nil {
		fmt.Printf("Error getting current user: %v\n", err)
		return
	}

	commonlog.Configure(0, nil)

	major, minor, patch := llvm.Version()
	fmt.Printf("Welcome to the llvmopt REPL (LLVM %d.%d.%d), %s!\n", major, minor, patch, currentUser.Username)
	fmt.Println(`Type "help" for commands.`)
	repl.Start(os.Stdin, os.Stdout)
}
