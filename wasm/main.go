//go:build wasm

package main

import (
	"syscall/js"
)

func main() {
	js.Global().Set("EntimarkNewScanner", js.FuncOf(jsNewScanner))
	js.Global().Set("EntimarkScan", js.FuncOf(jsScan))
	js.Global().Set("EntimarkScanBatch", js.FuncOf(jsScanBatch))
	js.Global().Set("EntimarkAnnotate", js.FuncOf(jsAnnotate))
	js.Global().Set("EntimarkCloseScanner", js.FuncOf(jsCloseScanner))

	// Keep WASM running
	<-make(chan struct{})
}

func jsError(msg string) any {
	return map[string]any{"error": msg}
}

func jsResult(s string, err error) any {
	if err != nil {
		return jsError(err.Error())
	}
	return s
}

// JS: EntimarkNewScanner(grammar, [optionsJSON]) -> {handle} or {error}
func jsNewScanner(this js.Value, args []js.Value) any {
	if len(args) < 1 {
		return jsError("grammar argument required")
	}
	optionsJSON := ""
	if len(args) > 1 {
		optionsJSON = args[1].String()
	}
	id, err := newScanner(args[0].String(), optionsJSON)
	if err != nil {
		return jsError(err.Error())
	}
	return map[string]any{"handle": id}
}

// JS: EntimarkScan(handle, content, [source]) -> JSON result or {error}
func jsScan(this js.Value, args []js.Value) any {
	if len(args) < 2 {
		return jsError("handle and content arguments required")
	}
	source := ""
	if len(args) > 2 {
		source = args[2].String()
	}
	return jsResult(scanContent(args[0].Int(), args[1].String(), source))
}

// JS: EntimarkScanBatch(handle, itemsJSON) -> JSON result or {error}
func jsScanBatch(this js.Value, args []js.Value) any {
	if len(args) < 2 {
		return jsError("handle and itemsJSON arguments required")
	}
	return jsResult(scanBatch(args[0].Int(), args[1].String()))
}

// JS: EntimarkAnnotate(handle, content) -> marked-up text or {error}
func jsAnnotate(this js.Value, args []js.Value) any {
	if len(args) < 2 {
		return jsError("handle and content arguments required")
	}
	return jsResult(annotate(args[0].Int(), args[1].String()))
}

// JS: EntimarkCloseScanner(handle)
func jsCloseScanner(this js.Value, args []js.Value) any {
	if len(args) < 1 {
		return jsError("handle argument required")
	}
	if err := closeScanner(args[0].Int()); err != nil {
		return jsError(err.Error())
	}
	return nil
}
