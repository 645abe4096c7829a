package main

import "github.com/BurntSushi/toml"

// fileConfig is the optional TOML config file layered underneath CLI flags:
// any flag explicitly passed on the command line overrides the matching
// config value. Fields are pointers so "not present in the file" is
// distinguishable from "present and zero".
type fileConfig struct {
	RAMBanks         *int    `toml:"ram_banks"`
	MHz              *int    `toml:"mhz"`
	Frames           *int    `toml:"frames"`
	ReportUninit     *bool   `toml:"report_uninit"`
	Log              *bool   `toml:"log"`
	Is816            *bool   `toml:"is816"`
	CartridgePath    *string `toml:"cartridge"`
}

func loadFileConfig(path string) (fileConfig, error) {
	var cfg fileConfig
	_, err := toml.DecodeFile(path, &cfg)
	return cfg, err
}
