// Copyright (c) 2019 Cisco and/or its affiliates.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at:
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package deployer

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

const startupConfigSuffix = "_startup-config.cfg"

// FileStore stores startup configurations as files of one directory.
type FileStore struct {
	Dir string
}

// NewFileStore is a constructor for FileStore.
func NewFileStore(dir string) *FileStore {
	return &FileStore{Dir: dir}
}

// Filename returns the path of the startup configuration of the router.
func (s *FileStore) Filename(hostname string) string {
	return filepath.Join(s.Dir, fmt.Sprintf("%s%s", hostname, startupConfigSuffix))
}

// Store writes the configuration into <dir>/<hostname>_startup-config.cfg.
func (s *FileStore) Store(hostname, text string) (string, error) {
	if err := os.MkdirAll(s.Dir, 0755); err != nil {
		return "", errors.Wrapf(err, "failed to create output directory %s", s.Dir)
	}
	filename := s.Filename(hostname)
	if err := os.WriteFile(filename, []byte(text), 0644); err != nil {
		return "", errors.Wrapf(err, "failed to write %s", filename)
	}
	return filename, nil
}
