// SPDX-License-Identifier: MPL-2.0

package main

import cmd "github.com/nvim-latest/nvim-latest/cmd/nvim-latest"

func main() {
	cmd.Execute()
}
