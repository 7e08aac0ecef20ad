package formproto

import (
	"hash/fnv"
	"sort"

	"github.com/jhump/protoreflect/v2/protobuilder"
	"google.golang.org/protobuf/reflect/protoreflect"
)

func allocateFieldNumbers(fieldBuilders []*protobuilder.FieldBuilder) {
	names := make([]string, len(fieldBuilders))
	for i, fb := range fieldBuilders {
		names[i] = string(fb.Name())
	}
	numbers := fnvNumbers(names)
	for i, fb := range fieldBuilders {
		fb.SetNumber(protoreflect.FieldNumber(numbers[i]))
	}
}

func allocateEnumValueNumbers(valueBuilders []*protobuilder.EnumValueBuilder) {
	names := make([]string, len(valueBuilders))
	for i, evb := range valueBuilders {
		names[i] = string(evb.Name())
	}
	numbers := fnvNumbers(names)
	for i, evb := range valueBuilders {
		evb.SetNumber(protoreflect.EnumNumber(numbers[i]))
	}
}

const (
	maxNumber     = 31767
	reservedStart = 19000
	reservedEnd   = 19999
)

// fnvNumbers derives a tag number from each name so that adding a field or
// kind never renumbers the existing ones:
//  1. candidate = FNV32a(name) % 31767 + 1
//  2. candidates in the reserved block 19000-19999 jump to 20000
//  3. collisions probe linearly, wrapping to 1
//
// Names are processed in sorted order so collision resolution is stable.
func fnvNumbers(names []string) []int {
	if len(names) == 0 {
		return nil
	}
	order := make([]int, len(names))
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(a, b int) bool { return names[order[a]] < names[order[b]] })

	out := make([]int, len(names))
	used := make(map[int]bool, len(names))
	for _, idx := range order {
		start := int(fnv32(names[idx])%maxNumber) + 1
		cand := start
		for {
			if cand >= reservedStart && cand <= reservedEnd {
				cand = reservedEnd + 1
			}
			if !used[cand] {
				used[cand] = true
				out[idx] = cand
				break
			}
			cand++
			if cand > maxNumber {
				cand = 1
			}
			if cand == start {
				panic("formproto: exhausted tag space")
			}
		}
	}
	return out
}

func fnv32(s string) uint32 {
	h := fnv.New32a()
	_, _ = h.Write([]byte(s))
	return h.Sum32()
}
