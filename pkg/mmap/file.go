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
	pkgErrors "github.com/pkg/errors"
	"golang.org/x/sys/unix"
)

// File represents a memory-mapped file of fixed size.
type File struct {
	*BlockDevice
	// Path of the underlying file
	Path string
}

// Open maps an existing file at its current size.
func Open(path string) (*File, error) {
	fd, err := unix.Open(path, unix.O_RDWR|unix.O_CLOEXEC, 0)
	if err != nil {
		return nil, pkgErrors.Wrapf(err, "failed to open file %#v", path)
	}

	var stat unix.Stat_t
	if err := unix.Fstat(fd, &stat); err != nil {
		_ = unix.Close(fd)
		return nil, pkgErrors.Wrapf(err, "failed to obtain size of file %#v", path)
	}

	return mapFile(path, fd, int(stat.Size))
}

// Create creates (or truncates) a file of exactly sizeBytes zero bytes, makes
// that durable and then maps it.
func Create(path string, sizeBytes int) (*File, error) {
	fd, err := unix.Open(path, unix.O_CREAT|unix.O_RDWR|unix.O_TRUNC|unix.O_CLOEXEC, 0644)
	if err != nil {
		return nil, pkgErrors.Wrapf(err, "failed to create file %#v", path)
	}

	if err := unix.Ftruncate(fd, int64(sizeBytes)); err != nil {
		_ = unix.Close(fd)
		return nil, pkgErrors.Wrapf(err, "failed to truncate file %#v to %d bytes", path, sizeBytes)
	}

	if err := unix.Fsync(fd); err != nil {
		_ = unix.Close(fd)
		return nil, pkgErrors.Wrapf(err, "failed to sync file %#v", path)
	}

	return mapFile(path, fd, sizeBytes)
}

func mapFile(path string, fd int, sizeBytes int) (*File, error) {
	bd, err := NewBlockDevice(fd, sizeBytes)
	if err != nil {
		_ = unix.Close(fd)
		return nil, pkgErrors.Wrapf(err, "file %#v", path)
	}

	return &File{bd, path}, nil
}
