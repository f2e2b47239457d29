// Command libbysquare builds the PAY by square C library:
//
//	go build -buildmode=c-shared -o libbysquare.so ./cmd/libbysquare
//
// Every function returning char * returns a string owned by the caller,
// to be released with bysquare_free.  Errors are strings starting with
// "ERROR:".
package main

/*
#include <stdint.h>
#include <stdlib.h>
*/
import "C"

import (
	"unsafe"

	"github.com/unixdj/bysquare/abi"
)

//export bysquare_encode
func bysquare_encode(data *C.char, config C.int) *C.char {
	return C.CString(abi.EncodePacked([]byte(C.GoString(data)), abi.Packed(config)))
}

//export bysquare_encode_with_config
func bysquare_encode_with_config(data *C.char, config C.uintptr_t) *C.char {
	return C.CString(abi.EncodeHandle([]byte(C.GoString(data)), abi.Handle(config)))
}

//export bysquare_decode
func bysquare_decode(qr *C.char) *C.char {
	return C.CString(abi.Decode(C.GoString(qr)))
}

//export bysquare_free
func bysquare_free(p *C.char) {
	C.free(unsafe.Pointer(p))
}

//export bysquare_create_config
func bysquare_create_config() C.uintptr_t {
	return C.uintptr_t(abi.CreateConfig())
}

//export bysquare_destroy_config
func bysquare_destroy_config(config C.uintptr_t) {
	abi.DestroyConfig(abi.Handle(config))
}

//export bysquare_config_set_deburr
func bysquare_config_set_deburr(config C.uintptr_t, on C.int) C.int {
	return status(abi.SetDeburr(abi.Handle(config), on != 0))
}

//export bysquare_config_set_validate
func bysquare_config_set_validate(config C.uintptr_t, on C.int) C.int {
	return status(abi.SetValidate(abi.Handle(config), on != 0))
}

//export bysquare_config_set_version
func bysquare_config_set_version(config C.uintptr_t, version C.int) C.int {
	return status(abi.SetVersion(abi.Handle(config), int(version)))
}

//export bysquare_version
func bysquare_version() *C.char {
	return C.CString(abi.Version())
}

// status returns 0 on success and -1 on error.
func status(err error) C.int {
	if err != nil {
		return -1
	}
	return 0
}

func main() {}
