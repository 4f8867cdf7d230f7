package shader

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/cogentcore/webgpu/wgpu"
)

var (
	// vertexEntryRegex matches the first function following a @vertex attribute.
	vertexEntryRegex = regexp.MustCompile(`(?s)@vertex\b.*?\bfn\s+(\w+)`)

	// fragmentEntryRegex matches the first function following a @fragment attribute.
	fragmentEntryRegex = regexp.MustCompile(`(?s)@fragment\b.*?\bfn\s+(\w+)`)

	// bindGroupDeclRegex captures group, binding, address space, var name and type of a binding declaration.
	bindGroupDeclRegex = regexp.MustCompile(`@group\((\d+)\)\s*@binding\((\d+)\)\s*var(?:<([^>]*)>)?\s+(\w+)\s*:\s*([^;]+?)\s*;`)

	lineCommentRegex  = regexp.MustCompile(`//[^\n]*`)
	blockCommentRegex = regexp.MustCompile(`(?s)/\*.*?\*/`)
)

// stripComments removes line and block comments so commented-out code is not parsed.
func stripComments(source string) string {
	return lineCommentRegex.ReplaceAllString(blockCommentRegex.ReplaceAllString(source, ""), "")
}

// parseEntryPoint extracts the entry point function name for the given shader type
// from WGSL source. Returns an empty string if no matching entry point annotation is found.
//
// Parameters:
//   - source: the WGSL source code
//   - shaderType: ShaderTypeVertex or ShaderTypeFragment
//
// Returns:
//   - string: the entry point function name, or empty string if not found
func parseEntryPoint(source string, shaderType ShaderType) string {
	cleaned := stripComments(source)

	var re *regexp.Regexp
	switch shaderType {
	case ShaderTypeVertex:
		re = vertexEntryRegex
	case ShaderTypeFragment:
		re = fragmentEntryRegex
	default:
		return ""
	}

	if match := re.FindStringSubmatch(cleaned); match != nil {
		return match[1]
	}
	return ""
}

// parseBindGroupLayouts builds one layout descriptor per @group from the buffer bindings
// declared in source. Only uniform and storage buffers are recognized.
//
// Parameters:
//   - source: the WGSL source code
//   - visibility: the shader stage the bindings are visible to
//
// Returns:
//   - map[int]wgpu.BindGroupLayoutDescriptor: descriptors keyed by group index
func parseBindGroupLayouts(source string, visibility wgpu.ShaderStage) map[int]wgpu.BindGroupLayoutDescriptor {
	out := make(map[int]wgpu.BindGroupLayoutDescriptor)
	for _, m := range bindGroupDeclRegex.FindAllStringSubmatch(stripComments(source), -1) {
		group, _ := strconv.Atoi(m[1])
		binding, _ := strconv.Atoi(m[2])

		entry := wgpu.BindGroupLayoutEntry{
			Binding:    uint32(binding),
			Visibility: visibility,
		}
		switch addr := strings.ReplaceAll(m[3], " ", ""); addr {
		case "uniform":
			entry.Buffer.Type = wgpu.BufferBindingTypeUniform
		case "storage", "storage,read":
			entry.Buffer.Type = wgpu.BufferBindingTypeReadOnlyStorage
		case "storage,read_write":
			entry.Buffer.Type = wgpu.BufferBindingTypeStorage
		default:
			continue
		}

		desc := out[group]
		desc.Label = "group " + m[1]
		desc.Entries = append(desc.Entries, entry)
		out[group] = desc
	}
	return out
}

// MergeBindGroupLayouts combines the layouts of several stages. Entries with the same group and
// binding are merged by OR-ing their visibility; entries are sorted by binding.
//
// Parameters:
//   - layouts: per-stage descriptors keyed by group index
//
// Returns:
//   - map[int]wgpu.BindGroupLayoutDescriptor: the combined descriptors
func MergeBindGroupLayouts(layouts ...map[int]wgpu.BindGroupLayoutDescriptor) map[int]wgpu.BindGroupLayoutDescriptor {
	merged := make(map[int]wgpu.BindGroupLayoutDescriptor)
	for _, stage := range layouts {
		for group, desc := range stage {
			target := merged[group]
			target.Label = desc.Label
		entries:
			for _, e := range desc.Entries {
				for i := range target.Entries {
					if target.Entries[i].Binding == e.Binding {
						target.Entries[i].Visibility |= e.Visibility
						continue entries
					}
				}
				target.Entries = append(target.Entries, e)
			}
			merged[group] = target
		}
	}
	for group, desc := range merged {
		sort.Slice(desc.Entries, func(i, j int) bool { return desc.Entries[i].Binding < desc.Entries[j].Binding })
		merged[group] = desc
	}
	return merged
}
