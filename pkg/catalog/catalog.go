/*
Copyright (C) 2018 Synopsys, Inc.

Licensed to the Apache Software Foundation (ASF) under one
or more contributor license agreements. See the NOTICE file
distributed with this work for additional information
regarding copyright ownership. The ASF licenses this file
to you under the Apache License, Version 2.0 (the
"License"); you may not use this file except in compliance
with the License. You may obtain a copy of the License at

http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing,
software distributed under the License is distributed on an
"AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY
KIND, either express or implied. See the License for the
specific language governing permissions and limitations
under the License.
*/

package catalog

import (
	_ "embed"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed iso27001.yaml
var iso27001YAML []byte

// Control is a single Annex A control.
type Control struct {
	ID          string `yaml:"id" json:"id"`
	Name        string `yaml:"name" json:"name"`
	Description string `yaml:"description" json:"description"`
}

// Category groups controls under an Annex A theme, e.g. "A.5".
type Category struct {
	ID       string    `yaml:"id" json:"id"`
	Title    string    `yaml:"title" json:"title"`
	Color    string    `yaml:"color" json:"color"`
	Controls []Control `yaml:"controls" json:"controls"`
}

// Catalog .....
type Catalog struct {
	Categories []Category `yaml:"categories" json:"categories"`
	byID       map[string]*Control
	categoryOf map[string]string
}

// Parse reads a catalog document and checks that control ids are unique
// and belong to their category.
func Parse(data []byte) (*Catalog, error) {
	catalog := &Catalog{}
	if err := yaml.Unmarshal(data, catalog); err != nil {
		return nil, fmt.Errorf("unable to parse control catalog: %s", err.Error())
	}
	catalog.byID = map[string]*Control{}
	catalog.categoryOf = map[string]string{}
	for i := range catalog.Categories {
		category := &catalog.Categories[i]
		for j := range category.Controls {
			control := &category.Controls[j]
			if _, ok := catalog.byID[control.ID]; ok {
				return nil, fmt.Errorf("duplicate control id %s", control.ID)
			}
			if !strings.HasPrefix(control.ID, category.ID+".") {
				return nil, fmt.Errorf("control %s does not belong to category %s", control.ID, category.ID)
			}
			catalog.byID[control.ID] = control
			catalog.categoryOf[control.ID] = category.ID
		}
	}
	return catalog, nil
}

// Default returns the embedded ISO 27001 catalog.
func Default() *Catalog {
	catalog, err := Parse(iso27001YAML)
	if err != nil {
		panic(err)
	}
	return catalog
}

// Control .....
func (catalog *Catalog) Control(id string) (*Control, bool) {
	control, ok := catalog.byID[id]
	return control, ok
}

// CategoryOf returns the category id of a control.
func (catalog *Catalog) CategoryOf(controlID string) (string, bool) {
	category, ok := catalog.categoryOf[controlID]
	return category, ok
}

// Category .....
func (catalog *Catalog) Category(id string) (*Category, bool) {
	for i := range catalog.Categories {
		if catalog.Categories[i].ID == id {
			return &catalog.Categories[i], true
		}
	}
	return nil, false
}

// ControlCount .....
func (catalog *Catalog) ControlCount() int {
	return len(catalog.byID)
}
