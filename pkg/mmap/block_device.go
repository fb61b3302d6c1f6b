// Copyright Consensys Software Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0
package mmap

import (
	"errors"
	"io"
	"runtime/debug"
	"syscall"

	pkgErrors "github.com/pkg/errors"
	"golang.org/x/sys/unix"
)

// BlockDevice represents a mmap block device holding a reference to a file descriptor.
type BlockDevice struct {
	FileDescriptor int
	Data           []byte
}

// NewBlockDevice creates a BlockDevice from a file descriptor referring to a
// regular file of exactly sizeBytes bytes.  To speed up reads, a memory map is
// used.  The BlockDevice takes ownership of the descriptor.
func NewBlockDevice(fileDescriptor, sizeBytes int) (*BlockDevice, error) {
	// mmap(2) rejects empty mappings
	if sizeBytes == 0 {
		return &BlockDevice{FileDescriptor: fileDescriptor}, nil
	}
	//
	data, err := unix.Mmap(fileDescriptor, 0, sizeBytes, unix.PROT_READ, unix.MAP_SHARED)
	if err != nil {
		return nil, pkgErrors.Wrap(err, "failed to memory map block device")
	}

	return &BlockDevice{
		FileDescriptor: fileDescriptor,
		Data:           data,
	}, nil
}

// Size returns the number of bytes addressable on this device.
func (bd *BlockDevice) Size() int {
	return len(bd.Data)
}

// ReadAt reads through the memory map at a given offset.
func (bd *BlockDevice) ReadAt(p []byte, off int64) (n int, err error) {
	// Let read actions go through the memory map to prevent system
	// call overhead for commonly requested objects.
	if off < 0 {
		return 0, syscall.EINVAL
	}

	if off > int64(len(bd.Data)) {
		return 0, io.EOF
	}
	// Install a page fault handler, so that I/O errors against the
	// memory map (e.g., due to disk failure) don't cause us to
	// crash.
	old := debug.SetPanicOnFault(true)
	defer func() {
		debug.SetPanicOnFault(old)

		if recover() != nil {
			err = errors.New("page fault occurred while reading from memory map")
		}
	}()

	n = copy(p, bd.Data[off:])
	if n < len(p) {
		err = io.EOF
	}

	return
}

// WriteAt writes at a given offset.  Writes never extend the device: a write
// reaching past the end is rejected before anything is written.
func (bd *BlockDevice) WriteAt(p []byte, off int64) (int, error) {
	if off < 0 {
		return 0, syscall.EINVAL
	} else if off+int64(len(p)) > int64(len(bd.Data)) {
		return 0, pkgErrors.Errorf("write of %d bytes at offset %d exceeds device size %d", len(p), off, len(bd.Data))
	}
	// Let write actions go through the file descriptor.  The mapping is
	// MAP_SHARED, hence the page cache makes the new bytes visible to
	// subsequent reads through the map.
	//
	// The pwrite() system call cannot return a size and error at
	// the same time. If an error occurs after one or more bytes are
	// written, it returns the size without an error (a "short
	// write"). As WriteAt() must return an error in those cases, we
	// must invoke pwrite() repeatedly.
	nTotal := 0

	for len(p) > 0 {
		n, err := unix.Pwrite(bd.FileDescriptor, p, off)
		nTotal += n

		if err != nil {
			return nTotal, pkgErrors.Wrapf(err, "failed to write %d bytes at offset %d", len(p), off)
		}

		p = p[n:]
		off += int64(n)
	}

	return nTotal, nil
}

// Sync synchronizes a file's in-core state with storage device.
func (bd *BlockDevice) Sync() error {
	return pkgErrors.Wrap(unix.Fsync(bd.FileDescriptor), "failed to sync block device")
}

// Close unmaps the device and releases the file descriptor.  The device
// cannot be used afterwards.
func (bd *BlockDevice) Close() error {
	var err error
	//
	if bd.Data != nil {
		err = unix.Munmap(bd.Data)
		bd.Data = nil
	}
	//
	if cerr := unix.Close(bd.FileDescriptor); err == nil {
		err = cerr
	}

	return pkgErrors.Wrap(err, "failed to close block device")
}
