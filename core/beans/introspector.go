package beans

import (
	"cmp"
	"fmt"
	"math"
	"reflect"
	"slices"
	"sync"
	"time"

	"datapath/core/property"

	"go.uber.org/zap"
)

// Introspector builds BeanPropertySets from struct types and caches them per
// type.
type Introspector struct {
	processors []PostProcessor
	logger     *zap.Logger

	mu    sync.RWMutex
	cache map[reflect.Type]*BeanPropertySet
}

// NewIntrospector creates an introspector running processors in the given
// order. With no processors the DefaultPostProcessors chain is used.
func NewIntrospector(logger *zap.Logger, processors ...PostProcessor) *Introspector {
	if logger == nil {
		logger = zap.NewNop()
	}
	if len(processors) == 0 {
		processors = DefaultPostProcessors(logger)
	}
	return &Introspector{
		processors: processors,
		logger:     logger,
		cache:      make(map[reflect.Type]*BeanPropertySet),
	}
}

// Default is the shared introspector with the default processor chain.
var Default = NewIntrospector(nil)

// Introspect returns the property set of T.
func Introspect[T any](i *Introspector) (*BeanPropertySet, error) {
	return i.Introspect(reflect.TypeFor[T]())
}

// Introspect returns the property set of the struct type t (or pointer to
// struct).
func (i *Introspector) Introspect(t reflect.Type) (*BeanPropertySet, error) {
	if t == nil {
		return nil, fmt.Errorf("%w: bean type is required", property.ErrInvalidArgument)
	}
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return nil, fmt.Errorf("%w: %s is not a struct", property.ErrInvalidArgument, t)
	}

	i.mu.RLock()
	cached, ok := i.cache[t]
	i.mu.RUnlock()
	if ok {
		return cached, nil
	}

	walker := &walker{introspector: i, fields: map[*property.Property][]int{}}
	if err := walker.walk(t, nil, nil); err != nil {
		return nil, fmt.Errorf("introspect %s: %w", t, err)
	}

	ordered := slices.Clone(walker.properties)
	slices.SortStableFunc(ordered, func(a, b *property.Property) int {
		return cmp.Compare(sequenceOf(a), sequenceOf(b))
	})

	set, err := newBeanPropertySet(t, ordered, walker.fields)
	if err != nil {
		return nil, fmt.Errorf("introspect %s: %w", t, err)
	}

	i.mu.Lock()
	if existing, ok := i.cache[t]; ok {
		set = existing
	} else {
		i.cache[t] = set
	}
	i.mu.Unlock()

	i.logger.Debug("bean introspected", zap.Stringer("type", t), zap.Int("properties", set.Len()))
	return set, nil
}

func sequenceOf(p *property.Property) int {
	if seq, ok := p.Sequence(); ok {
		return seq
	}
	return math.MaxInt
}

type walker struct {
	introspector *Introspector
	properties   []*property.Property
	fields       map[*property.Property][]int
}

var timeType = reflect.TypeFor[time.Time]()

func (w *walker) walk(t reflect.Type, parent *property.Property, index []int) error {
	for n := 0; n < t.NumField(); n++ {
		sf := t.Field(n)
		fieldIndex := append(slices.Clone(index), n)

		if sf.Anonymous && sf.IsExported() && sf.Type.Kind() == reflect.Struct {
			if err := w.walk(sf.Type, parent, fieldIndex); err != nil {
				return err
			}
			continue
		}
		if !sf.IsExported() {
			continue
		}

		f := Field{
			Owner:       t,
			StructField: sf,
			Options:     parseTag(sf.Tag.Get(TagName)),
			Gorm:        gormOptions(sf),
		}
		b := &PropertyBuilder{Config: property.Config{
			Type:   sf.Type,
			Parent: parent,
			Tags:   map[string]string{"field": sf.Name},
		}}
		for _, proc := range w.introspector.processors {
			if !proc.Applies(f) {
				continue
			}
			if err := proc.Process(b, f); err != nil {
				return fmt.Errorf("%s processor: %w", proc.Name(), err)
			}
			if b.Ignore {
				break
			}
		}
		if b.Ignore {
			continue
		}

		nested := sf.Type.Kind() == reflect.Struct && sf.Type != timeType
		if nested {
			b.Tags["nested"] = "true"
		}
		p, err := b.Build()
		if err != nil {
			return err
		}
		w.properties = append(w.properties, p)
		w.fields[p] = fieldIndex

		if nested {
			if err := w.walk(sf.Type, p, fieldIndex); err != nil {
				return err
			}
		}
	}
	return nil
}
