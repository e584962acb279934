// Package hcl_adapter provides the HCL implementation of config.Loader. It
// parses run files with hclparse, decodes them with gohcl against an
// evaluation context exposing the process environment as env.*, and
// translates the result into config.Model.
package hcl_adapter
