package beans

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"datapath/core/property"

	"go.uber.org/zap"
)

// Field is the input handed to post-processors.
type Field struct {
	// Owner is the struct type declaring the field.
	Owner reflect.Type
	// StructField is the reflected field.
	StructField reflect.StructField
	// Options are the parsed datapath tag options.
	Options TagOptions
	// Gorm are the parsed gorm tag options, keys lower cased.
	Gorm map[string]string
}

// PropertyBuilder is the mutable property configuration post-processors work on.
type PropertyBuilder struct {
	property.Config
	// Ignore drops the field from the property set.
	Ignore bool
}

// PostProcessor decorates a property builder for the fields it applies to.
type PostProcessor interface {
	Name() string
	Applies(f Field) bool
	Process(b *PropertyBuilder, f Field) error
}

// DefaultPostProcessors is the ordered processor chain used by Default.
func DefaultPostProcessors(logger *zap.Logger) []PostProcessor {
	return []PostProcessor{
		ignoreProcessor{},
		nameProcessor{},
		identifierProcessor{logger: logger},
		versionProcessor{logger: logger},
		sequenceProcessor{},
		converterProcessor{},
		validationProcessor{},
	}
}

type ignoreProcessor struct{}

func (ignoreProcessor) Name() string { return "ignore" }

func (ignoreProcessor) Applies(f Field) bool {
	return f.Options.Has("-") || hasKey(f.Gorm, "-")
}

func (ignoreProcessor) Process(b *PropertyBuilder, _ Field) error {
	b.Ignore = true
	return nil
}

type nameProcessor struct{}

func (nameProcessor) Name() string { return "name" }

func (nameProcessor) Applies(Field) bool { return true }

func (nameProcessor) Process(b *PropertyBuilder, f Field) error {
	switch {
	case f.Options.Get("name") != "":
		b.Name = f.Options.Get("name")
	case f.Gorm["column"] != "":
		b.Name = f.Gorm["column"]
	default:
		b.Name = snakeCase(f.StructField.Name)
	}
	b.Tags["column"] = b.Name
	return nil
}

type identifierProcessor struct {
	logger *zap.Logger
}

func (identifierProcessor) Name() string { return "identifier" }

func (identifierProcessor) Applies(f Field) bool {
	return f.Options.Has("id") || hasKey(f.Gorm, "primarykey")
}

func (p identifierProcessor) Process(b *PropertyBuilder, f Field) error {
	b.Identifier = true
	p.logger.Debug("property set as identifier", zap.String("property", b.Name), zap.Stringer("owner", f.Owner))
	return nil
}

type versionProcessor struct {
	logger *zap.Logger
}

func (versionProcessor) Name() string { return "version" }

func (versionProcessor) Applies(f Field) bool { return f.Options.Has("version") }

func (p versionProcessor) Process(b *PropertyBuilder, f Field) error {
	b.Version = true
	p.logger.Debug("property set as version", zap.String("property", b.Name), zap.Stringer("owner", f.Owner))
	return nil
}

type sequenceProcessor struct{}

func (sequenceProcessor) Name() string { return "sequence" }

func (sequenceProcessor) Applies(f Field) bool { return f.Options.Has("seq") }

func (sequenceProcessor) Process(b *PropertyBuilder, f Field) error {
	seq, err := strconv.Atoi(f.Options.Get("seq"))
	if err != nil {
		return fmt.Errorf("field %s: invalid sequence %q", f.StructField.Name, f.Options.Get("seq"))
	}
	b.Sequence = &seq
	return nil
}

type converterProcessor struct{}

func (converterProcessor) Name() string { return "converter" }

func (converterProcessor) Applies(f Field) bool {
	return f.Options.Has("bool") && f.StructField.Type.Kind() == reflect.Bool
}

func (converterProcessor) Process(b *PropertyBuilder, f Field) error {
	switch strings.ToLower(f.Options.Get("bool")) {
	case "numeric", "":
		b.Converter = property.NumericBoolean{}
	case "string":
		b.Converter = property.StringBoolean{}
	default:
		return fmt.Errorf("field %s: unknown boolean encoding %q", f.StructField.Name, f.Options.Get("bool"))
	}
	return nil
}

type validationProcessor struct{}

func (validationProcessor) Name() string { return "validation" }

func (validationProcessor) Applies(f Field) bool {
	_, ok := f.StructField.Tag.Lookup(ValidateTagName)
	return ok
}

func (validationProcessor) Process(b *PropertyBuilder, f Field) error {
	v, err := property.Expression(f.StructField.Tag.Get(ValidateTagName))
	if err != nil {
		return fmt.Errorf("field %s: %w", f.StructField.Name, err)
	}
	b.Validators = append(b.Validators, v)
	return nil
}

func hasKey(m map[string]string, key string) bool {
	_, ok := m[key]
	return ok
}
