package instancetable

import (
	"errors"
	"fmt"
	"io"

	"github.com/devantler-tech/vmctl/pkg/svc/provider"
	"gopkg.in/yaml.v3"
)

// Format selects how a listing is written.
type Format string

// Supported output formats.
const (
	FormatTable Format = "table"
	FormatYAML  Format = "yaml"
)

// ErrUnsupportedFormat is returned for an output format other than table or yaml.
var ErrUnsupportedFormat = errors.New("unsupported output format: use 'table' or 'yaml'")

// ParseFormat validates an output format name. Empty selects FormatTable.
func ParseFormat(value string) (Format, error) {
	switch format := Format(value); format {
	case "", FormatTable:
		return FormatTable, nil
	case FormatYAML:
		return format, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, value)
	}
}

// instanceView is the YAML shape of an instance.
type instanceView struct {
	ID            string `yaml:"id"`
	Name          string `yaml:"name,omitempty"`
	State         string `yaml:"state"`
	Type          string `yaml:"type,omitempty"`
	Zone          string `yaml:"zone,omitempty"`
	PublicAddress string `yaml:"publicAddress,omitempty"`
}

// Write renders instances in the given format.
func Write(w io.Writer, instances []provider.Instance, format Format) error {
	switch format {
	case FormatTable, "":
		Render(w, instances)

		return nil
	case FormatYAML:
		return RenderYAML(w, instances)
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
}

// RenderYAML writes instances sorted by id as a YAML sequence. An empty listing yields "[]".
func RenderYAML(w io.Writer, instances []provider.Instance) error {
	views := make([]instanceView, 0, len(instances))
	for _, instance := range sortByID(instances) {
		views = append(views, instanceView{
			ID:            instance.ID,
			Name:          instance.Name,
			State:         string(instance.State),
			Type:          instance.Type,
			Zone:          instance.Zone,
			PublicAddress: instance.PublicAddress,
		})
	}

	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)

	err := encoder.Encode(views)
	if err != nil {
		return fmt.Errorf("failed to encode instances: %w", err)
	}

	err = encoder.Close()
	if err != nil {
		return fmt.Errorf("failed to flush instances: %w", err)
	}

	return nil
}
