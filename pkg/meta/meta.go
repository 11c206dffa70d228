// Package meta holds author and license metadata applied to tagged
// images, loaded from a TOML configuration file.
package meta

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// License is a Creative Commons license selector, using the short
// identifiers accepted in the configuration file.
type License string

const (
	PublicDomain    License = "cc0"
	Attribution     License = "cc-by"
	AttributionSA   License = "cc-by-sa"
	AttributionND   License = "cc-by-nd"
	AttributionNC   License = "cc-by-nc"
	AttributionNCSA License = "cc-by-nc-sa"
	AttributionNCND License = "cc-by-nc-nd"
)

var licenseNames = map[License]string{
	PublicDomain:    "CC0 1.0 Universal",
	Attribution:     "Creative Commons Attribution 4.0 International",
	AttributionSA:   "Creative Commons Attribution-ShareAlike 4.0 International",
	AttributionND:   "Creative Commons Attribution-NoDerivatives 4.0 International",
	AttributionNC:   "Creative Commons Attribution-NonCommercial 4.0 International",
	AttributionNCSA: "Creative Commons Attribution-NonCommercial-ShareAlike 4.0 International",
	AttributionNCND: "Creative Commons Attribution-NonCommercial-NoDerivatives 4.0 International",
}

var licenseURLs = map[License]string{
	PublicDomain:    "https://creativecommons.org/publicdomain/zero/1.0/",
	Attribution:     "https://creativecommons.org/licenses/by/4.0/",
	AttributionSA:   "https://creativecommons.org/licenses/by-sa/4.0/",
	AttributionND:   "https://creativecommons.org/licenses/by-nd/4.0/",
	AttributionNC:   "https://creativecommons.org/licenses/by-nc/4.0/",
	AttributionNCSA: "https://creativecommons.org/licenses/by-nc-sa/4.0/",
	AttributionNCND: "https://creativecommons.org/licenses/by-nc-nd/4.0/",
}

// Valid reports whether the license selector is one of the known
// Creative Commons variants.
func (l License) Valid() bool {
	_, ok := licenseNames[l]
	return ok
}

// Name returns the canonical name of the license.
func (l License) Name() string {
	return licenseNames[l]
}

// URL returns the official URL of the license.
func (l License) URL() string {
	return licenseURLs[l]
}

// Author identifies the photographer.
type Author struct {
	Name string `mapstructure:"name"`
	URL  string `mapstructure:"url"`
}

// Metadata is a full set of author and license metadata. License is
// empty when the work is unlicensed (all rights reserved).
type Metadata struct {
	Author  Author  `mapstructure:"author"`
	License License `mapstructure:"license"`
}

// Load reads author metadata from a TOML file.
func Load(path string) (*Metadata, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("toml")
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading author metadata: %w", err)
	}
	var m Metadata
	if err := v.Unmarshal(&m); err != nil {
		return nil, fmt.Errorf("decoding author metadata: %w", err)
	}
	if m.Author.Name == "" {
		return nil, fmt.Errorf("author metadata %s: author name is required", path)
	}
	if m.License != "" && !m.License.Valid() {
		return nil, fmt.Errorf("author metadata %s: unknown license %q", path, m.License)
	}
	return &m, nil
}

// Copyright returns the copyright notice for the given date.
func (m *Metadata) Copyright(date time.Time) string {
	rights := "All"
	switch {
	case m.License == PublicDomain:
		rights = "No"
	case m.License != "":
		rights = "Some"
	}
	return fmt.Sprintf("© %s, %d. %s rights reserved.", m.Author.Name, date.Year(), rights)
}

// UsageTerms returns the full license text, or "" when no license is
// set.
func (m *Metadata) UsageTerms() string {
	switch m.License {
	case "":
		return ""
	case PublicDomain:
		return fmt.Sprintf("To the extent possible under law, %s has waived all copyright and related or neighboring rights to this work.", m.Author.Name)
	}
	var b strings.Builder
	fmt.Fprintf(&b, "This work is licensed under the %s License. ", m.License.Name())
	fmt.Fprintf(&b, "To view a copy of this license, visit %s or send a letter to ", m.License.URL())
	b.WriteString("Creative Commons, 171 Second Street, Suite 300, San Francisco, California, 94105, USA.")
	return b.String()
}
