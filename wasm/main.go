//go:build wasm

package main

import (
	"syscall/js"
)

func main() {
	// Export functions to JavaScript
	js.Global().Set("AdocrefNewChecker", js.FuncOf(newChecker))
	js.Global().Set("AdocrefAddFile", js.FuncOf(addFile))
	js.Global().Set("AdocrefCheck", js.FuncOf(check))
	js.Global().Set("AdocrefCheckBatch", js.FuncOf(checkBatch))
	js.Global().Set("AdocrefCloseChecker", js.FuncOf(closeChecker))
	js.Global().Set("AdocrefGetBuiltinDirectives", js.FuncOf(getBuiltinDirectives))

	// Keep WASM running
	<-make(chan struct{})
}
