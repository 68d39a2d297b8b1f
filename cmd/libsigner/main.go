// Command libsigner builds the signer as a C shared library:
//
//	go build -buildmode=c-shared -o libsigner.so ./cmd/libsigner
//
// signer.h documents the exported functions. Log output goes to
// stderr at the level named by ADASIGNER_LOG_LEVEL (off by default).
package main

/*
#include <stdint.h>
#include <stdlib.h>
*/
import "C"

import (
	"unsafe"

	"github.com/btccom/adasigner/handle"
)

var signers = handle.NewTable()

func init() {
	initLogging()
}

//export signer_new_mnemonic
func signer_new_mnemonic(mnemonic, path *C.char) C.uintptr_t {
	if mnemonic == nil || path == nil {
		return 0
	}
	return C.uintptr_t(signers.NewMnemonic(C.GoString(mnemonic), C.GoString(path)))
}

//export signer_new_bech32
func signer_new_bech32(rootKey, path *C.char) C.uintptr_t {
	if rootKey == nil || path == nil {
		return 0
	}
	return C.uintptr_t(signers.NewBech32(C.GoString(rootKey), C.GoString(path)))
}

//export signer_new_cli
func signer_new_cli(cliKey *C.char) C.uintptr_t {
	if cliKey == nil {
		return 0
	}
	return C.uintptr_t(signers.NewCLI(C.GoString(cliKey)))
}

//export signer_sign_transaction
func signer_sign_transaction(h C.uintptr_t, txHex *C.char) *C.char {
	if txHex == nil {
		return nil
	}

	sig, ok := signers.SignTransaction(handle.Handle(h), C.GoString(txHex))
	if !ok {
		return nil
	}
	return C.CString(sig)
}

//export signer_get_public_key
func signer_get_public_key(h C.uintptr_t) *C.char {
	pub, ok := signers.PublicKey(handle.Handle(h))
	if !ok {
		return nil
	}
	return C.CString(pub)
}

//export signer_free
func signer_free(h C.uintptr_t) {
	signers.Free(handle.Handle(h))
}

//export signer_free_string
func signer_free_string(s *C.char) {
	if s != nil {
		C.free(unsafe.Pointer(s))
	}
}

func main() {}
