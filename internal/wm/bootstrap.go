package wm

import (
	"fmt"

	"github.com/tilewm/tilewm/internal/config"
	"github.com/tilewm/tilewm/internal/containers"
	"github.com/tilewm/tilewm/internal/geometry"
	"github.com/tilewm/tilewm/internal/platform"
)

// resolveGaps converts the YAML gaps block's raw length strings into the
// LengthValue/LengthRectDelta form containers.GapsConfig carries (resolved
// lazily to pixels by Tree.ToRect, not here — see rect.go's childRect/
// ToRect for where ScaleWithDPI and the parent extent actually apply).
func resolveGaps(cfg config.GapsConfig) (containers.GapsConfig, error) {
	inner, err := geometry.ParseLengthValue(cfg.InnerGap)
	if err != nil {
		return containers.GapsConfig{}, fmt.Errorf("gaps.inner_gap: %w", err)
	}
	outer, err := resolveOuterGap(cfg.OuterGap)
	if err != nil {
		return containers.GapsConfig{}, fmt.Errorf("gaps.outer_gap: %w", err)
	}
	resolved := containers.GapsConfig{ScaleWithDPI: cfg.ScaleWithDPI, InnerGap: inner, OuterGap: outer}
	if cfg.SingleWindowOuterGap != nil {
		single, err := resolveOuterGap(*cfg.SingleWindowOuterGap)
		if err != nil {
			return containers.GapsConfig{}, fmt.Errorf("gaps.single_window_outer_gap: %w", err)
		}
		resolved.SingleWindowOuterGap = &single
	}
	return resolved, nil
}

func resolveOuterGap(cfg config.OuterGapConfig) (geometry.LengthRectDelta, error) {
	var d geometry.LengthRectDelta
	var err error
	if d.Top, err = geometry.ParseLengthValue(cfg.Top); err != nil {
		return d, err
	}
	if d.Right, err = geometry.ParseLengthValue(cfg.Right); err != nil {
		return d, err
	}
	if d.Bottom, err = geometry.ParseLengthValue(cfg.Bottom); err != nil {
		return d, err
	}
	if d.Left, err = geometry.ParseLengthValue(cfg.Left); err != nil {
		return d, err
	}
	return d, nil
}

// BuildTree constructs the initial container tree from a live monitor
// enumeration and the loaded config: one Monitor node per native monitor,
// and one Workspace node per configured workspace, bound to its monitor by
// index when workspaces.bind_to_monitor is set, else distributed round-robin
// across monitors (spec.md §4.5 gives no explicit initial-assignment rule).
// This policy applies only here; events.migrateWorkspacesOffMonitor moves
// a removed monitor's workspaces to the primary monitor instead.
func BuildTree(cfg *config.Config, monitors []platform.NativeMonitor) (*containers.Tree, error) {
	if len(monitors) == 0 {
		return nil, fmt.Errorf("no monitors to build a tree from")
	}
	gaps, err := resolveGaps(cfg.Gaps)
	if err != nil {
		return nil, err
	}

	tree := containers.NewTree()
	monitorNodes := make([]*containers.Container, 0, len(monitors))
	for _, native := range monitors {
		rect, err := native.WorkingRect()
		if err != nil {
			return nil, fmt.Errorf("read monitor working rect: %w", err)
		}
		dpi, err := native.DPI()
		if err != nil {
			dpi = 1.0
		}
		node := containers.NewMonitor(native, rect, dpi)
		tree.AttachContainer(node, tree.RootID(), -1)
		monitorNodes = append(monitorNodes, node)
	}

	workspaces := cfg.Workspaces
	if len(workspaces) == 0 {
		workspaces = []config.WorkspaceConfig{{Name: "1", KeepAlive: true}}
	}
	for i, ws := range workspaces {
		monitorIdx := i % len(monitorNodes)
		if ws.BindToMonitor != nil && *ws.BindToMonitor >= 0 && *ws.BindToMonitor < len(monitorNodes) {
			monitorIdx = *ws.BindToMonitor
		}
		node := containers.NewWorkspace(ws.Name, containers.DefaultWorkspaceLayout(), gaps)
		node.SetDisplayName(ws.DisplayName)
		node.SetKeepAlive(ws.KeepAlive)
		if ws.BindToMonitor != nil {
			idx := *ws.BindToMonitor
			node.SetBoundMonitorIndex(&idx)
		}
		tree.AttachContainer(node, monitorNodes[monitorIdx].ID(), -1)
	}
	return tree, nil
}
