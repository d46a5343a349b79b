package sim

import (
	"fmt"
	"strconv"
	"strings"
)

// A Named object is an object that has a name.
type Named interface {
	Name() string
}

// NameMustBeValid panics if the name does not follow the naming convention.
//
//  1. Names are hierarchical, separated by dots. "A.B.C" is valid, "A.B.C."
//     is not.
//  2. Individual names must not be empty. "A..B" is not valid.
//  3. Individual names are capitalized CamelCase. "A.b" is not valid.
//  4. Elements in a series use square-bracket indices, e.g. "Lane[3]".
func NameMustBeValid(name string) {
	for _, token := range strings.Split(name, ".") {
		err := checkNameToken(token)
		if err != nil {
			panic(fmt.Sprintf("Name %s is not valid: %s", name, err))
		}
	}
}

func checkNameToken(token string) error {
	elemName, indices, hasIndex := strings.Cut(token, "[")
	if elemName == "" {
		return fmt.Errorf("name element must not be empty")
	}

	if strings.ContainsAny(elemName, "_\"'-]") {
		return fmt.Errorf("name element %q contains invalid characters",
			elemName)
	}

	if elemName[0] < 'A' || elemName[0] > 'Z' {
		return fmt.Errorf("name element %q must start with a capital letter",
			elemName)
	}

	if hasIndex {
		return checkIndices("[" + indices)
	}

	return nil
}

func checkIndices(s string) error {
	for s != "" {
		if s[0] != '[' {
			return fmt.Errorf("bracket must match")
		}

		end := strings.IndexByte(s, ']')
		if end < 0 {
			return fmt.Errorf("bracket must match")
		}

		if _, err := strconv.Atoi(s[1:end]); err != nil {
			return fmt.Errorf("name index must be integer")
		}

		s = s[end+1:]
	}

	return nil
}

// BuildName builds a name from a parent name and an element name.
func BuildName(parentName, elementName string) string {
	if parentName == "" {
		return elementName
	}

	return parentName + "." + elementName
}

// BuildNameWithIndex builds a name from a parent name, an element name and
// an index.
func BuildNameWithIndex(parentName, elementName string, index int) string {
	return BuildName(parentName, elementName+"["+strconv.Itoa(index)+"]")
}
