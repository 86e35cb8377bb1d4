// Package ros1msg implements SchemaCompiler for the ROS1 .msg wire format:
// it parses a message definition's text grammar into a field/type tree, then
// builds a MessageFactory able to deserialize message bytes against that
// tree.
package ros1msg

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// primitives is the set of ROS1 .msg built-in field types; anything else in
// a field declaration names another message type.
var primitives = map[string]bool{
	"bool":     true,
	"int8":     true,
	"uint8":    true,
	"int16":    true,
	"uint16":   true,
	"int32":    true,
	"uint32":   true,
	"int64":    true,
	"uint64":   true,
	"float32":  true,
	"float64":  true,
	"string":   true,
	"time":     true,
	"duration": true,
	"char":     true,
	"byte":     true,
}

// Field names are restricted to "an alphabetical character followed by any
// mixture of alphanumeric and underscores", per http://wiki.ros.org/msg#Fields
var fieldMatcher = regexp.MustCompile(`([^ \t]+)[ \t]+([a-zA-Z][a-zA-Z0-9_]*)`)

// Type describes one field's shape: either a primitive, a fixed/variable
// length array of some item type, or a nested record with its own fields.
type Type struct {
	BaseType  string
	IsArray   bool
	FixedSize int
	IsRecord  bool
	Items     *Type
	Fields    []Field
}

// Field is one named member of a message definition.
type Field struct {
	Name string
	Type Type
}

func resolveDependentFields(
	parentPackage string,
	dependencies map[string]string,
	subdefinition string,
) ([]Field, error) {
	fields := []Field{}
	for i, line := range strings.Split(subdefinition, "\n") {
		line := strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, "#") {
			continue
		}
		// constant declaration, not a field
		if strings.Contains(strings.Split(line, "#")[0], "=") {
			continue
		}

		matches := fieldMatcher.FindStringSubmatch(line)
		if len(matches) < 3 {
			return nil, fmt.Errorf("malformed field on line %d: %s", i, line)
		}
		fieldType := matches[1]
		fieldName := matches[2]

		var isRecord bool
		var recordFields []Field
		var arrayItems *Type
		var err error
		inputType := fieldType

		isArray, baseType, fixedSize := parseArrayType(fieldType)
		if isArray {
			fieldType = baseType
		}

		if !primitives[fieldType] {
			// The field type can relate to the names in dependencies three
			// ways: an exact (possibly package-qualified) match, an
			// unqualified name resolved against the parent package, or the
			// special-cased "Header" alias for std_msgs/Header.
			typeIsQualified := strings.Contains(fieldType, "/")
			pkg := parentPackage
			if typeIsQualified {
				pkg = strings.Split(fieldType, "/")[0]
			}
			subdefinition, typeIsPresent := dependencies[fieldType]
			var ok bool
			switch {
			case typeIsPresent:
			case fieldType == "Header":
				subdefinition, ok = dependencies["std_msgs/Header"]
				if !ok {
					return nil, fmt.Errorf("dependency Header not found")
				}
			case !typeIsPresent && !typeIsQualified:
				qualifiedType := pkg + "/" + fieldType
				subdefinition, ok = dependencies[qualifiedType]
				if !ok {
					return nil, fmt.Errorf("dependency %s not found", qualifiedType)
				}
			}
			recordFields, err = resolveDependentFields(pkg, dependencies, subdefinition)
			if err != nil {
				return nil, fmt.Errorf("failed to resolve dependent record: %w", err)
			}
			isRecord = true
		}

		if isArray {
			arrayItems = &Type{
				BaseType:  fieldType,
				IsArray:   false,
				FixedSize: 0,
				IsRecord:  isRecord,
				Items:     nil, // nested arrays not allowed
				Fields:    recordFields,
			}
			fields = append(fields, Field{
				Name: fieldName,
				Type: Type{
					BaseType:  inputType,
					IsArray:   true,
					FixedSize: fixedSize,
					IsRecord:  false,
					Items:     arrayItems,
				},
			})
		} else {
			fields = append(fields, Field{
				Name: fieldName,
				Type: Type{
					BaseType:  inputType,
					IsArray:   isArray,
					FixedSize: fixedSize,
					IsRecord:  isRecord,
					Items:     arrayItems,
					Fields:    recordFields,
				},
			})
		}
	}
	return fields, nil
}

// ParseMessageDefinition parses a full .msg definition, including any
// concatenated dependent-type subdefinitions separated by a line of "=",
// into the top-level message's field tree.
func ParseMessageDefinition(parentPackage string, data []byte) ([]Field, error) {
	definitions := splitLines(string(data), func(line string) bool {
		return strings.HasPrefix(strings.TrimSpace(line), "=")
	})
	definition := definitions[0]
	subdefinitions := definitions[1:]
	dependencies := make(map[string]string)
	for _, subdefinition := range subdefinitions {
		lines := strings.Split(subdefinition, "\n")
		header := strings.TrimSpace(lines[0])
		rosType := strings.TrimPrefix(header, "MSG: ")
		dependencies[rosType] = strings.Join(lines[1:], "\n")
	}
	fields, err := resolveDependentFields(parentPackage, dependencies, definition)
	if err != nil {
		return nil, fmt.Errorf("failed to build dependent records: %w", err)
	}
	return fields, nil
}

func splitLines(s string, predicate func(string) bool) []string {
	chunks := []string{}
	chunk := &strings.Builder{}
	for _, line := range strings.Split(s, "\n") {
		if predicate(line) {
			chunks = append(chunks, chunk.String())
			chunk.Reset()
			continue
		}
		chunk.WriteString(line + "\n")
	}
	if chunk.Len() > 0 {
		chunks = append(chunks, chunk.String())
	}
	return chunks
}

func parseArrayType(s string) (isArray bool, baseType string, fixedSize int) {
	if !strings.Contains(s, "[") || !strings.Contains(s, "]") {
		return false, "", 0
	}
	leftBracketIndex := strings.Index(s, "[")
	rightBracketIndex := strings.Index(s, "]")
	baseType = s[:leftBracketIndex]
	size := s[leftBracketIndex+1 : rightBracketIndex]
	if size == "" {
		return true, baseType, 0
	}
	fixedSize, err := strconv.Atoi(size)
	if err != nil {
		return false, "", 0
	}
	return true, baseType, fixedSize
}
