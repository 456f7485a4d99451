// Package compiler turns logical schemas into physical layouts.
//
// Resolve maps one property type to a layout type plus type arguments,
// following schema references through the namespace. Compile walks a
// schema's properties in declaration order and decides, per property,
// whether it becomes a fixed, variable or sparse column:
//
//   - fixed and variable storage is only legal directly under the schema;
//   - every scope (object, array, set, map, tuple, tagged, udt) is sparse and
//     must be nullable;
//   - a base schema is embedded as an immutable udt column named __base,
//     ahead of the schema's own properties.
//
// All failures are *CompilationError values with stable messages.
package compiler
