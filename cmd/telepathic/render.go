package main

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"telepathic-go/packages/telepathic/binding"
	"telepathic-go/packages/telepathic/component"
	"telepathic-go/packages/telepathic/dom"
	"telepathic-go/packages/telepathic/loader"
	"telepathic-go/packages/telepathic/util"
)

const viewTag = "telepathic-view"

type renderOptions struct {
	dir  string
	sets []string
	data string
}

func newRenderCommand() *cobra.Command {
	o := &renderOptions{}
	cmd := &cobra.Command{
		Use:   "render <name>",
		Short: "Mount a template, apply property writes and print the result",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, console, err := loadConfig()
			if err != nil {
				return err
			}
			h := component.New(dom.NewElement(viewTag), nil,
				component.WithConfig(cfg),
				component.WithConsole(console),
				component.WithLoader(loader.NewFSLoader(os.DirFS(o.dir))),
			)
			if err := h.Connect(cmd.Context(), args[0]); err != nil {
				return err
			}
			if err := o.apply(h.Owner()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), h.Root().InnerHTML())
			return nil
		},
	}
	cmd.Flags().StringVar(&o.dir, "dir", ".", "directory templates are loaded from")
	cmd.Flags().StringArrayVar(&o.sets, "set", nil, "property write as path=value, repeatable")
	cmd.Flags().StringVar(&o.data, "data", "", "JSON file whose fields are written to the owner")
	return cmd
}

// apply writes the --data fields first, then every --set in order
func (o *renderOptions) apply(owner *binding.Object) error {
	if o.data != "" {
		raw, err := os.ReadFile(o.data)
		if err != nil {
			return err
		}
		var fields map[string]interface{}
		if err := json.Unmarshal(raw, &fields); err != nil {
			return fmt.Errorf("parsing %s: %w", o.data, err)
		}
		if err := writeFields(owner, fields); err != nil {
			return err
		}
	}
	for _, set := range o.sets {
		path, value, ok := strings.Cut(set, "=")
		if !ok {
			return fmt.Errorf("invalid --set %q, expected path=value", set)
		}
		if err := owner.SetPath(path, binding.Text(value)); err != nil {
			return fmt.Errorf("--set %s: %w", path, err)
		}
	}
	return nil
}

func writeFields(owner *binding.Object, fields map[string]interface{}) error {
	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if err := owner.Set(name, toValue(fields[name])); err != nil {
			return fmt.Errorf("writing %s: %w", name, err)
		}
	}
	return nil
}

// toValue converts decoded JSON; objects nest, everything else becomes text
func toValue(v interface{}) binding.Value {
	switch v := v.(type) {
	case nil:
		return binding.Undeclared()
	case string:
		return binding.Text(v)
	case map[string]interface{}:
		obj := binding.NewObject()
		_ = writeFields(obj, v)
		return binding.ObjectValue(obj)
	default:
		return binding.Text(util.Stringify(v))
	}
}
